package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T) (*Authenticator, *TokenCodec) {
	t.Helper()
	store, err := NewCredentialStore([]BootstrapUser{
		{Username: "user", Password: "user", Roles: []Role{RoleUser}},
		{Username: "admin", Password: "admin", Roles: []Role{RoleAdmin}},
	})
	require.NoError(t, err)
	codec := NewTokenCodec("test-secret", time.Hour)
	return NewAuthenticator(store, codec), codec
}

func TestAuthenticateSuccess(t *testing.T) {
	authn, codec := newTestAuthenticator(t)

	token, err := authn.Authenticate(context.Background(), "admin", "admin")
	require.NoError(t, err)

	p, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", p.Username)
	assert.Equal(t, []Role{RoleAdmin}, p.Roles)
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	authn, _ := newTestAuthenticator(t)

	_, wrongPass := authn.Authenticate(context.Background(), "user", "nope")
	_, unknownUser := authn.Authenticate(context.Background(), "ghost", "nope")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknownUser.Error())
}

func TestCredentialStoreLookup(t *testing.T) {
	store, err := NewCredentialStore([]BootstrapUser{
		{Username: "user", Password: "s3cret", Roles: []Role{RoleUser}},
	})
	require.NoError(t, err)

	p, hash, err := store.Lookup("user")
	require.NoError(t, err)
	assert.Equal(t, "user", p.Username)
	assert.NotEqual(t, "s3cret", hash, "plaintext must not be stored")
	assert.True(t, CheckPasswordHash("s3cret", hash))

	_, _, err = store.Lookup("ghost")
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestCredentialStoreRejectsBadBootstrap(t *testing.T) {
	_, err := NewCredentialStore([]BootstrapUser{{Username: "", Password: "x", Roles: []Role{RoleUser}}})
	assert.Error(t, err)

	_, err = NewCredentialStore([]BootstrapUser{{Username: "u", Password: "x"}})
	assert.Error(t, err)

	_, err = NewCredentialStore([]BootstrapUser{
		{Username: "u", Password: "x", Roles: []Role{RoleUser}},
		{Username: "u", Password: "y", Roles: []Role{RoleAdmin}},
	})
	assert.Error(t, err)
}

func TestParseBootstrapUsers(t *testing.T) {
	users, err := ParseBootstrapUsers("user:user:USER,admin:admin:ADMIN")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "user", users[0].Username)
	assert.Equal(t, []Role{RoleUser}, users[0].Roles)
	assert.Equal(t, []Role{RoleAdmin}, users[1].Roles)

	users, err = ParseBootstrapUsers("root:pw:USER|ADMIN")
	require.NoError(t, err)
	assert.Equal(t, []Role{RoleUser, RoleAdmin}, users[0].Roles)

	_, err = ParseBootstrapUsers("")
	assert.Error(t, err)

	_, err = ParseBootstrapUsers("user:pw:WIZARD")
	assert.Error(t, err)

	_, err = ParseBootstrapUsers("user-no-password")
	assert.Error(t, err)
}

func TestHasAnyRole(t *testing.T) {
	p := Principal{Username: "user", Roles: []Role{RoleUser}}
	assert.True(t, p.HasAnyRole(RoleUser, RoleAdmin))
	assert.False(t, p.HasAnyRole(RoleAdmin))
	assert.True(t, p.HasAnyRole(), "empty requirement always passes")
}

package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is the only failure Authenticate ever returns.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dummyHash is compared against when the username is unknown so both
// failure paths pay the same bcrypt cost. Hash of an unguessable string,
// generated once at init with the store's work factor.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("libraryd-dummy-credential"), bcryptCost)

// Authenticator validates credentials against the store and mints tokens.
type Authenticator struct {
	store *CredentialStore
	codec *TokenCodec
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(store *CredentialStore, codec *TokenCodec) *Authenticator {
	return &Authenticator{store: store, codec: codec}
}

// Authenticate verifies a username/password pair and returns a signed
// token for the matching principal.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (string, error) {
	principal, hash, err := a.store.Lookup(username)
	if err != nil {
		// Burn the same hashing cost as the wrong-password path.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", ErrInvalidCredentials
	}
	if !CheckPasswordHash(password, hash) {
		return "", ErrInvalidCredentials
	}
	return a.codec.Issue(principal)
}

package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPrincipalNotFound indicates a lookup miss in the credential store.
var ErrPrincipalNotFound = errors.New("principal not found")

type credentialRecord struct {
	principal    Principal
	passwordHash string
}

// CredentialStore holds the fixed principal set. It is populated once at
// startup and read-only afterwards, so concurrent lookups need no locking.
type CredentialStore struct {
	records map[string]credentialRecord
}

// BootstrapUser is a plaintext bootstrap entry; the password is hashed
// during store construction and the plaintext is not retained.
type BootstrapUser struct {
	Username string
	Password string
	Roles    []Role
}

// NewCredentialStore hashes and indexes the bootstrap users.
func NewCredentialStore(users []BootstrapUser) (*CredentialStore, error) {
	records := make(map[string]credentialRecord, len(users))
	for _, u := range users {
		if u.Username == "" {
			return nil, errors.New("bootstrap user with empty username")
		}
		if len(u.Roles) == 0 {
			return nil, fmt.Errorf("bootstrap user %q has no roles", u.Username)
		}
		if _, exists := records[u.Username]; exists {
			return nil, fmt.Errorf("duplicate bootstrap user %q", u.Username)
		}
		hash, err := HashPassword(u.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", u.Username, err)
		}
		records[u.Username] = credentialRecord{
			principal:    Principal{Username: u.Username, Roles: u.Roles},
			passwordHash: hash,
		}
	}
	return &CredentialStore{records: records}, nil
}

// Lookup returns the principal and password hash for a username.
func (s *CredentialStore) Lookup(username string) (Principal, string, error) {
	rec, ok := s.records[username]
	if !ok {
		return Principal{}, "", ErrPrincipalNotFound
	}
	return rec.principal, rec.passwordHash, nil
}

// ParseBootstrapUsers parses "username:password:ROLE|ROLE" entries
// separated by commas, e.g. "user:user:USER,admin:admin:ADMIN".
func ParseBootstrapUsers(raw string) ([]BootstrapUser, error) {
	var users []BootstrapUser
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("malformed bootstrap user entry %q", entry)
		}
		var roles []Role
		for _, r := range strings.Split(parts[2], "|") {
			role, ok := ParseRole(strings.TrimSpace(r))
			if !ok {
				return nil, fmt.Errorf("unknown role %q in entry %q", r, entry)
			}
			roles = append(roles, role)
		}
		users = append(users, BootstrapUser{
			Username: parts[0],
			Password: parts[1],
			Roles:    roles,
		})
	}
	if len(users) == 0 {
		return nil, errors.New("no bootstrap users configured")
	}
	return users, nil
}

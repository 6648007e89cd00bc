package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token verification failure kinds. The HTTP layer collapses all of them
// to 401 so verification internals never leak to the caller.
var (
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token has expired")
)

// TokenClaims carries the principal identity inside the token. Roles are
// embedded so verification needs no credential-store lookup.
type TokenClaims struct {
	Roles []Role `json:"roles"`
	jwt.RegisteredClaims
}

// TokenCodec mints and verifies HS256 bearer tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewTokenCodec constructs a codec with a process-wide signing secret.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "libraryd",
		now:    time.Now,
	}
}

// Issue signs a token asserting the principal's identity and roles.
func (c *TokenCodec) Issue(p Principal) (string, error) {
	now := c.now()
	claims := TokenClaims{
		Roles: p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks the signature and expiry of a token string and resolves
// it back to a Principal. Signature comparison inside the HMAC check is
// constant time.
func (c *TokenCodec) Verify(tokenStr string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Principal{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Principal{}, ErrSignatureInvalid
		default:
			return Principal{}, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return Principal{}, ErrTokenMalformed
	}
	if claims.Subject == "" {
		return Principal{}, ErrTokenMalformed
	}

	return Principal{Username: claims.Subject, Roles: claims.Roles}, nil
}

// TTL exposes the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

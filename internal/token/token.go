// Package token creates and validates the signed bearer tokens used by the
// auth service. Tokens are HS256 JWTs carrying at minimum a subject user id
// and an expiry.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// ErrInvalidToken is returned for any token that fails validation: bad
// signature, malformed structure, or expired. Callers must not distinguish
// between these cases.
var ErrInvalidToken = errors.New("invalid or expired token")

// Codec signs and verifies tokens with a process-wide shared secret. The
// secret is injected at construction; it is never read from ambient state.
type Codec struct {
	key jwk.Key
}

func New(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret must not be empty")
	}

	key, err := jwk.Import([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("token: import signing secret: %w", err)
	}

	return &Codec{key: key}, nil
}

// Issue signs a token for the given user, expiring ttl from now.
// A random jti claim makes every issued token string unique, which the
// refresh-token storage relies on.
func (c *Codec) Issue(userID uint, ttl time.Duration) (string, error) {
	now := time.Now()

	tok, err := jwt.NewBuilder().
		Subject(strconv.FormatUint(uint64(userID), 10)).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		JwtID(uuid.New().String()).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token claims: %v", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), c.key))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}

	return string(signed), nil
}

// Validate verifies the signature and embedded expiry of s and returns the
// subject user id. The signature is checked before any claim is read; claims
// from an unverified token are attacker-controlled.
func (c *Codec) Validate(s string) (uint, error) {
	tok, err := jwt.Parse([]byte(s), jwt.WithKey(jwa.HS256(), c.key))
	if err != nil {
		return 0, ErrInvalidToken
	}

	sub, ok := tok.Subject()
	if !ok {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return uint(userID), nil
}

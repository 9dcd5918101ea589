// Package session issues and verifies the stateless bearer credentials
// returned by the account lifecycle operations. A credential encodes only
// the account ID and an expiry; it is never persisted server-side, so it
// stays valid until its natural expiry even after logout.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the credential lifetime, matching the cookie lifetime.
const DefaultTTL = 24 * time.Hour

var ErrInvalidCredential = errors.New("invalid or expired credential")

type claims struct {
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue signs a credential for the given account ID.
func (i *Issuer) Issue(userID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return signed, nil
}

// Verify parses a credential and returns the account ID it encodes.
// Expired, malformed, or wrongly signed credentials all yield
// ErrInvalidCredential.
func (i *Issuer) Verify(credential string) (int64, error) {
	var c claims
	token, err := jwt.ParseWithClaims(credential, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredential
	}
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidCredential
	}
	return userID, nil
}

// TTL returns the credential lifetime, for cookie max-age.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

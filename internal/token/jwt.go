// Package token issues and verifies the HMAC-signed bearer tokens handed out at login.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrWeakKey = errors.New("token: signing key must be at least 256 bits")

type Signer struct {
	key    []byte
	method jwt.SigningMethod
	now    func() time.Time
}

type Option func(*Signer)

// WithClock overrides the time source used for iat/exp and for verification.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

// NewSigner decodes a base64 secret. The HMAC variant follows the key length.
func NewSigner(secret string, opts ...Option) (*Signer, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("token: decoding secret: %w", err)
	}
	s := &Signer{key: key, now: time.Now}
	switch {
	case len(key) >= 64:
		s.method = jwt.SigningMethodHS512
	case len(key) >= 48:
		s.method = jwt.SigningMethodHS384
	case len(key) >= 32:
		s.method = jwt.SigningMethodHS256
	default:
		return nil, ErrWeakKey
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Algorithm reports the JWS alg header value, e.g. "HS256".
func (s *Signer) Algorithm() string { return s.method.Alg() }

// Issue signs a token for subject that expires ttl from now.
func (s *Signer) Issue(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("token: signing: %w", err)
	}
	return signed, nil
}

// Verify returns the subject of a well-formed, correctly signed, unexpired token.
// Every failure collapses to ok=false.
func (s *Signer) Verify(raw string) (subject string, ok bool) {
	p := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	var claims jwt.RegisteredClaims
	t, err := p.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return s.key, nil })
	if err != nil || !t.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

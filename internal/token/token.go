// Package token issues and verifies the signed, time-limited tokens used for
// account activation and for access/refresh sessions.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrSigning is returned by Issue when the service is misconfigured.
	ErrSigning = errors.New("token signing failed")
	// ErrTokenExpired is returned by Verify once the embedded expiry is reached.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers bad signatures, foreign algorithms and payloads
	// that do not match the expected claims schema.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is implemented by the payload types of this package. Each type
// validates its own shape after the signature and time checks pass.
type Claims interface {
	jwt.Claims
	Validate() error
	registered() *jwt.RegisteredClaims
}

type Service struct {
	now func() time.Time
}

func NewService() *Service {
	return &Service{now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{now: now}
}

// Issue signs claims with secret (HS256). Issue time, expiry and a fresh
// token id are written into claims before signing.
func (s *Service) Issue(claims Claims, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("%w: secret is empty", ErrSigning)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("%w: ttl must be positive", ErrSigning)
	}

	now := s.now().UTC()
	reg := claims.registered()
	reg.ID = uuid.NewString()
	reg.IssuedAt = jwt.NewNumericDate(now)
	reg.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}

	return signed, nil
}

// Verify checks signature, expiry and payload shape of raw and decodes it
// into claims.
func (s *Service) Verify(raw string, secret string, claims Claims) error {
	if raw == "" || secret == "" {
		return ErrTokenInvalid
	}

	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	// exp is exclusive: a token is dead at its expiry second, not after it.
	if !s.now().Before(claims.registered().ExpiresAt.Time) {
		return ErrTokenExpired
	}

	return nil
}

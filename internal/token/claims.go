package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"go-course-platform/internal/model"
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// SessionClaims is the payload of access and refresh tokens.
type SessionClaims struct {
	UserID string `json:"id"`
	Type   Kind   `json:"typ"`
	jwt.RegisteredClaims

	expect Kind
}

// NewSessionClaims builds the payload to issue for userID.
func NewSessionClaims(userID string, kind Kind) *SessionClaims {
	return &SessionClaims{UserID: userID, Type: kind, expect: kind}
}

// ExpectSession returns an empty payload that only accepts tokens of kind.
func ExpectSession(kind Kind) *SessionClaims {
	return &SessionClaims{expect: kind}
}

func (c *SessionClaims) Validate() error {
	if c.UserID == "" {
		return errors.New("missing user id")
	}
	if c.expect != "" && c.Type != c.expect {
		return errors.New("unexpected token type")
	}
	return nil
}

func (c *SessionClaims) registered() *jwt.RegisteredClaims {
	return &c.RegisteredClaims
}

// ActivationPayload is a pending registration and its one-time code.
type ActivationPayload struct {
	User           model.PendingUser `json:"user"`
	ActivationCode string            `json:"activationCode"`
}

func (p ActivationPayload) validate() error {
	if p.User.Email == "" || p.User.Name == "" {
		return errors.New("missing pending user")
	}
	if len(p.ActivationCode) != 4 {
		return errors.New("malformed activation code")
	}
	for _, r := range p.ActivationCode {
		if r < '0' || r > '9' {
			return errors.New("malformed activation code")
		}
	}
	return nil
}

// ActivationClaims carries an ActivationPayload sealed under the activation
// secret. The holder of the token can read neither the password hash nor the
// code.
type ActivationClaims struct {
	Sealed string `json:"pending"`
	jwt.RegisteredClaims
}

func (c *ActivationClaims) Validate() error {
	if c.Sealed == "" {
		return errors.New("missing pending registration")
	}
	return nil
}

func (c *ActivationClaims) registered() *jwt.RegisteredClaims {
	return &c.RegisteredClaims
}

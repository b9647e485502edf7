package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealInfo = "course-platform activation payload"

// IssueActivation seals payload with a key derived from secret and signs the
// result as an activation token.
func (s *Service) IssueActivation(payload ActivationPayload, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("%w: secret is empty", ErrSigning)
	}
	if err := payload.validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}

	sealed, err := seal(secret, payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}

	return s.Issue(&ActivationClaims{Sealed: sealed}, secret, ttl)
}

// VerifyActivation verifies raw like Verify and opens the sealed payload.
func (s *Service) VerifyActivation(raw string, secret string) (ActivationPayload, error) {
	var claims ActivationClaims
	if err := s.Verify(raw, secret, &claims); err != nil {
		return ActivationPayload{}, err
	}

	payload, err := open(secret, claims.Sealed)
	if err != nil {
		return ActivationPayload{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if err := payload.validate(); err != nil {
		return ActivationPayload{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	return payload, nil
}

func sealKey(secret string) ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(sealInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// seal encrypts payload with XChaCha20-Poly1305. The output is the nonce
// followed by the ciphertext, base64url encoded.
func seal(secret string, payload ActivationPayload) (string, error) {
	plain, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	key, err := sealKey(secret)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(aead.Seal(nonce, nonce, plain, nil)), nil
}

func open(secret, sealed string) (ActivationPayload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return ActivationPayload{}, fmt.Errorf("decode payload: %w", err)
	}

	key, err := sealKey(secret)
	if err != nil {
		return ActivationPayload{}, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return ActivationPayload{}, err
	}

	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return ActivationPayload{}, errors.New("sealed payload too short")
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ActivationPayload{}, fmt.Errorf("open payload: %w", err)
	}

	var payload ActivationPayload
	if err := json.Unmarshal(plain, &payload); err != nil {
		return ActivationPayload{}, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}

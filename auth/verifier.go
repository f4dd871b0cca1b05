// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/calon-vote/cliparse"
)

var ErrNoCredential = errors.New("no admin credential configured")

// Verifier checks a submitted admin password against the configured credential
type Verifier interface {
	Verify(password string) bool
}

type bcryptVerifier struct {
	hash []byte
}

// NewBcryptVerifier checks passwords against a precomputed bcrypt hash
func NewBcryptVerifier(hash string) Verifier {
	return &bcryptVerifier{hash: []byte(hash)}
}

func (v *bcryptVerifier) Verify(password string) bool {
	// Malformed hashes come back as an error, never a panic
	return bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil
}

type plaintextVerifier struct {
	digest [sha256.Size]byte
}

// NewPlaintextVerifier checks passwords against a secret from trusted config.
// Both sides are hashed first so the comparison time does not depend on length.
func NewPlaintextVerifier(secret string) Verifier {
	return &plaintextVerifier{digest: sha256.Sum256([]byte(secret))}
}

func (v *plaintextVerifier) Verify(password string) bool {
	supplied := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(supplied[:], v.digest[:]) == 1
}

// NewVerifier picks the credential strategy for this deployment.
// A plaintext password wins over a hash when both are set.
func NewVerifier(cfg cliparse.Config) (Verifier, error) {
	switch {
	case cfg.AdminPassword != "":
		return NewPlaintextVerifier(cfg.AdminPassword), nil
	case cfg.AdminPasswordHash != "":
		return NewBcryptVerifier(cfg.AdminPasswordHash), nil
	}
	return nil, ErrNoCredential
}

// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"ofertas/config"
	"ofertas/internal/domain/service"
	"ofertas/internal/errors"
)

const defaultPasswordMinLength = 6

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost      int
	minLength int
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	minLength := defaultPasswordMinLength
	if cfg.PasswordStrength != nil && cfg.PasswordStrength.MinLength > 0 {
		minLength = cfg.PasswordStrength.MinLength
	}

	return &bcryptHasher{
		cost:      cost,
		minLength: minLength,
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), errors.WithStack(err)
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidateStrength rejects passwords shorter than the configured minimum.
func (h *bcryptHasher) ValidateStrength(password string) error {
	if len(password) < h.minLength {
		return errors.Errorf("password must be at least %d characters", h.minLength)
	}

	return nil
}

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used for the admin password.
const DefaultCost = bcrypt.DefaultCost

// ErrEmptyPassword is returned when no password is configured.
var ErrEmptyPassword = errors.New("empty password")

// Secret keeps only the bcrypt hash of a shared password so the plaintext
// does not stay in memory after startup.
type Secret struct {
	hash []byte
}

// NewSecret hashes password with the given bcrypt cost.
func NewSecret(password string, cost int) (*Secret, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &Secret{hash: hash}, nil
}

// Matches reports whether candidate is the configured password.
func (s *Secret) Matches(candidate string) bool {
	if s == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.hash, []byte(candidate)) == nil
}

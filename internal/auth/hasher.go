// Package auth hashes passwords and checks login credentials.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used when none is configured.
const DefaultCost = 10

// Hasher turns plaintext passwords into salted one-way hashes and verifies
// plaintext against them.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Bcrypt is a Hasher backed by bcrypt.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt Hasher. Costs outside bcrypt's range fall back
// to DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (b *Bcrypt) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(h), nil
}

// Verify reports whether password matches hash.
func (b *Bcrypt) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

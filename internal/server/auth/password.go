// Package auth implements credential primitives: bcrypt password hashing and
// the signed session tokens used by the admin UI.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a salted, one-way bcrypt hash from a plaintext
// password. cost follows bcrypt's cost scale; values outside the valid range
// fall back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

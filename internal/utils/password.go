package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces the bcrypt hash stored on operator accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash reports whether the submitted password matches a stored
// account hash. Comparison cost is bcrypt's, so callers should rate-limit.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

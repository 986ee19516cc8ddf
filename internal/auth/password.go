package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost keeps verification around the 100ms mark on current hardware.
const bcryptCost = 12

// HashPassword derives a salted bcrypt hash from the plaintext password.
// Each call uses a fresh random salt, so hashing the same password twice
// yields different blobs.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash. Comparison
// is constant-time inside bcrypt; malformed hash blobs simply return false.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

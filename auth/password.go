package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword produces a salted bcrypt hash of the plaintext password with
// the given cost factor. bcrypt generates a fresh salt per call, so hashing
// the same password twice yields different strings that both verify.
func HashPassword(plaintext string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether plaintext is the password that produced
// hashedForm. A malformed stored hash yields false, not an error: every
// failure mode is an authentication failure from the caller's perspective.
func CheckPassword(plaintext, hashedForm string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedForm), []byte(plaintext)) == nil
}

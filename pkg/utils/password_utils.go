package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt. All newly stored
// credentials use this form; the legacy digest below is never written.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// LegacyDigest returns the hex-encoded SHA-256 digest of a password.
// Pre-existing accounts (including the seeded defaults) carry this form.
func LegacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword checks a plaintext password against a stored hash,
// accepting either the bcrypt form or the legacy SHA-256 digest.
func VerifyPassword(storedHash, password string) bool {
	if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil {
		return true
	}
	legacy := LegacyDigest(password)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(legacy)) == 1
}

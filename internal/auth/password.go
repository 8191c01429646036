// Package auth provides password hashing, session token generation, and the
// session cookie contract for the Taleblock server.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2 parameters are fixed. Stored hashes carry no parameter header,
	// so changing any of these invalidates every previously hashed password.
	pbkdf2Iterations = 100_000
	pbkdf2SaltLength = 16
	pbkdf2KeyLength  = 32

	// Prevent DoS attacks from massive passwords consuming CPU during hashing.
	// This is generous enough for any legitimate use case but stops casual abuse.
	maxPasswordLength = 1024
)

// HashPassword creates a PBKDF2-HMAC-SHA256 hash of the password.
// The result is base64(salt || derived key) with a fresh 16-byte salt,
// so hashing the same password twice yields different strings.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if len(password) > maxPasswordLength {
		return "", errors.New("password exceeds maximum length")
	}

	// Generate a cryptographically secure salt.
	salt := make([]byte, pbkdf2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)

	return base64.StdEncoding.EncodeToString(append(salt, key...)), nil
}

// VerifyPassword verifies a password against an encoded hash.
// Malformed input yields false rather than an error, so a corrupted stored
// hash behaves like a wrong password.
func VerifyPassword(password, encodedHash string) bool {
	if password == "" || len(password) > maxPasswordLength {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(encodedHash)
	if err != nil {
		return false
	}
	if len(decoded) <= pbkdf2SaltLength {
		return false
	}

	salt := decoded[:pbkdf2SaltLength]
	storedKey := decoded[pbkdf2SaltLength:]

	// Re-derive with the same parameters and stored key length.
	testKey := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, len(storedKey), sha256.New)

	// Constant-time comparison to prevent timing attacks.
	return subtle.ConstantTimeCompare(storedKey, testKey) == 1
}

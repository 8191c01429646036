package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// sessionTokenSize is the entropy of a session token in bytes.
// 256 bits makes collision with an existing or guessed token negligible.
const sessionTokenSize = 32

// NewSessionToken creates a cryptographically random opaque session token.
// NOTE: the token carries no claims, it's just random bytes stored in the
// database that we can validate against.
// Returns the token as a 64-character hex string.
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

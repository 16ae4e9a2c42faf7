package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

// Key format: rk_{secret}
// Example: rk_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b4f8d2e1b
//
// The key is stored as-is: the get endpoint must return the same value
// on every call until a regenerate, so the secret has to stay
// retrievable. The randomness here is best-effort uniqueness only; the
// store's unique index is the authoritative backstop.
const (
	// KeySecretLen is the secret length in hex characters (20 random bytes).
	KeySecretLen = 40
)

var keyFormatRegex = regexp.MustCompile(`^rk_[a-f0-9]{40}$`)

// GenerateAPIKey creates a new opaque API key.
func GenerateAPIKey() (string, error) {
	secretBytes := make([]byte, KeySecretLen/2)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return "rk_" + hex.EncodeToString(secretBytes), nil
}

// ValidateKeyFormat checks if the key matches the expected format.
func ValidateKeyFormat(key string) bool {
	return keyFormatRegex.MatchString(key)
}

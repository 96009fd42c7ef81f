// ABOUTME: API key fingerprinting and generation
// ABOUTME: Keys are stored only as lowercase hex SHA-256 digests

package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// Hasher turns a secret into the fingerprint stored in place of it.
type Hasher interface {
	Hash(secret string) string
}

// SHA256Hasher fingerprints secrets as 64-character lowercase hex SHA-256 digests.
// Existing fingerprints in the users table depend on this exact encoding.
type SHA256Hasher struct{}

// Hash implements Hasher.
func (SHA256Hasher) Hash(secret string) string {
	return HashAPIKey(secret)
}

// HashAPIKey returns the fingerprint of an API key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// GenerateAPIKey returns a fresh opaque API key of the form "api-<uuid>".
func GenerateAPIKey() string {
	return "api-" + uuid.New().String()
}

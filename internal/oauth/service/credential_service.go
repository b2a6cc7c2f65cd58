package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/authflow/authflow/internal/errors"
)

// credentialService implements CredentialService using SHA-256 for hashing.
type credentialService struct{}

// Generate creates a new cryptographically secure 32-byte random credential.
// The value is base64 URL-encoded for easy transmission in query parameters
// and headers. Returns the plain value and its SHA-256 hash.
func (c *credentialService) Generate() (plainValue string, valueHash string, error error) {
	// Generate 32 random bytes (256 bits)
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random credential")
	}

	// Encode to base64 URL-safe string for text representation
	plainValue = base64.URLEncoding.EncodeToString(randomBytes)

	// Hash the value using SHA-256
	valueHash = c.Hash(plainValue)

	return plainValue, valueHash, nil
}

// Hash hashes a plain credential using SHA-256.
// Returns the hash as a hexadecimal string.
func (c *credentialService) Hash(plainValue string) string {
	hash := sha256.Sum256([]byte(plainValue))
	return hex.EncodeToString(hash[:])
}

// NewCredentialService creates a new CredentialService instance using SHA-256 hashing.
func NewCredentialService() CredentialService {
	return &credentialService{}
}

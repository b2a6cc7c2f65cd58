// Package service provides technical services for the OAuth2 flows.
//
// This package implements reusable services for client secret hashing,
// opaque credential generation, and PKCE verification using
// industry-standard cryptographic practices.
package service

import "github.com/authflow/authflow/internal/oauth/domain"

// SecretService defines operations for client secret generation and validation.
// Implementations must use cryptographically secure random generation and
// industry-standard hashing algorithms (e.g., bcrypt, argon2).
type SecretService interface {
	// GenerateSecret creates a new cryptographically secure random secret.
	// Returns both the plain text secret (to be shared with the client) and
	// the hashed version (to be stored in the database).
	//
	// The plain secret should be treated as sensitive data and only displayed
	// once during client creation or rotation.
	GenerateSecret() (plainSecret string, hashedSecret string, error error)

	// HashSecret hashes a plain text secret using a secure hashing algorithm.
	HashSecret(plainSecret string) (hashedSecret string, error error)

	// CompareSecret compares a plain text secret against a hashed secret.
	// Returns true if the plain secret matches the hash, false otherwise.
	// This is constant-time to prevent timing attacks.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// CredentialService defines operations for opaque credential generation and
// hashing. Authorization codes, access tokens, and refresh tokens all share
// the same shape: a high-entropy random value handed to the client once,
// with only its SHA-256 hash persisted.
type CredentialService interface {
	// Generate creates a new cryptographically secure random credential.
	// Returns both the plain value (to be shared with the client) and its
	// SHA-256 hash (to be stored in the database).
	Generate() (plainValue string, valueHash string, error error)

	// Hash hashes a plain credential using SHA-256.
	// Used for lookup by comparing hashes.
	Hash(plainValue string) string
}

// PKCEService verifies a PKCE code verifier against a stored challenge.
type PKCEService interface {
	// Verify applies the stored method to the presented verifier and compares
	// the result against the stored challenge in constant time.
	Verify(challenge string, method domain.CodeChallengeMethod, verifier string) bool
}

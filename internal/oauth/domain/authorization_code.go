package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuthorizationCode is a short-lived, single-use exchange token minted on
// consent approval. Only the SHA-256 hash of the opaque value is stored;
// the plaintext exists only in the redirect back to the client.
type AuthorizationCode struct {
	ID                  uuid.UUID
	CodeHash            string // SHA-256 hex of the opaque code value
	ClientID            uuid.UUID
	TenantID            uuid.UUID
	UserID              uuid.UUID
	Scopes              []string
	RedirectURI         string // Must match bit-for-bit at exchange time
	CodeChallenge       string // Copied from the authorization request
	CodeChallengeMethod CodeChallengeMethod
	Used                bool
	ExpiresAt           time.Time
	CreatedAt           time.Time
}

// IsExpired reports whether the code has passed its expiry.
func (c *AuthorizationCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// HasPKCE reports whether the code carries a PKCE challenge.
func (c *AuthorizationCode) HasPKCE() bool {
	return c.CodeChallenge != ""
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccessToken is a bearer credential for resource access. The opaque
// value is stored as a SHA-256 hash; validation hashes the presented
// bearer and looks it up.
type AccessToken struct {
	ID        uuid.UUID
	TokenHash string // SHA-256 hex of the opaque token value
	ClientID  uuid.UUID
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Scopes    []string
	FamilyID  uuid.UUID // Shared with the refresh tokens descended from the same grant
	RevokedAt *time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the token has passed its expiry.
func (t *AccessToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsActive reports whether the token is neither expired nor revoked.
func (t *AccessToken) IsActive(now time.Time) bool {
	return !t.IsExpired(now) && t.RevokedAt == nil
}

// RefreshToken is a long-lived, single-use credential for obtaining new
// token pairs. Rotation marks the token rotated and links its replacement;
// presenting an already-rotated token revokes the whole family.
type RefreshToken struct {
	ID         uuid.UUID
	TokenHash  string // SHA-256 hex of the opaque token value
	ClientID   uuid.UUID
	TenantID   uuid.UUID
	UserID     uuid.UUID
	Scopes     []string
	FamilyID   uuid.UUID  // Lineage of the original grant, preserved across rotations
	RotatedAt  *time.Time // Set when the token is rotated; non-nil means spent
	ReplacedBy *uuid.UUID // ID of the refresh token minted by the rotation
	RevokedAt  *time.Time
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// IsExpired reports whether the token has passed its expiry.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsRotated reports whether the token has already been spent.
func (t *RefreshToken) IsRotated() bool {
	return t.RotatedAt != nil
}

// IsRevoked reports whether the token was revoked (directly or via its family).
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuthorizationRequest is a pending consent ticket. It is created when a
// client's authorization redirect passes validation, bound to a user when
// the session is established, and consumed exactly once by a consent
// decision.
type AuthorizationRequest struct {
	ID                  uuid.UUID
	ClientID            uuid.UUID
	TenantID            uuid.UUID
	Scopes              []string // Granted scopes (already intersected with the client's allowed set)
	RedirectURI         string   // Validated against the client's registered set at creation
	State               string   // Opaque client value, echoed back unmodified
	CodeChallenge       string   // Empty when the client did not supply PKCE
	CodeChallengeMethod CodeChallengeMethod
	UserID              *uuid.UUID // Set once the authenticated user is attached
	Consumed            bool
	ExpiresAt           time.Time
	CreatedAt           time.Time
}

// IsExpired reports whether the request has passed its expiry.
func (r *AuthorizationRequest) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// HasPKCE reports whether the request carries a PKCE challenge.
func (r *AuthorizationRequest) HasPKCE() bool {
	return r.CodeChallenge != ""
}

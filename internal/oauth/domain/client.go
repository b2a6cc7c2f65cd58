package domain

import (
	"time"

	"github.com/google/uuid"
)

// Client represents a registered OAuth2 application owned by a tenant.
// Confidential clients carry an Argon2id-hashed secret; public clients
// (native/SPA) have no secret and must use PKCE.
type Client struct {
	ID            uuid.UUID  // Unique identifier (UUIDv7), presented on the wire as client_id
	TenantID      uuid.UUID  // Owning tenant; all derived artifacts inherit it
	SecretHash    *string    // Hashed client secret (nil for public clients)
	Name          string     // Human-readable client name shown on the consent screen
	Description   string     // Optional description shown on the consent screen
	RedirectURIs  []string   // Registered redirect URIs, matched exactly
	AllowedScopes []string   // Scopes this client may request
	IsActive      bool       // Whether the client can participate in flows
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsPublic reports whether the client has no secret and must use PKCE.
func (c *Client) IsPublic() bool {
	return c.SecretHash == nil || *c.SecretHash == ""
}

// HasRedirectURI reports whether uri exactly matches a registered redirect
// URI. No prefix or wildcard matching: a trailing slash or different port
// is a different URI.
func (c *Client) HasRedirectURI(uri string) bool {
	for _, registered := range c.RedirectURIs {
		if registered == uri {
			return true
		}
	}
	return false
}

// GrantScopes intersects the requested scopes with the client's allowed
// scopes. Unknown scopes are silently dropped. An empty result means the
// request is out of policy and must fail with invalid_scope.
func (c *Client) GrantScopes(requested []string) []string {
	var granted []string
	for _, scope := range requested {
		if ScopeContains(c.AllowedScopes, scope) {
			granted = append(granted, scope)
		}
	}
	return granted
}

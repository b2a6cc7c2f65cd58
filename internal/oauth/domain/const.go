// Package domain defines the OAuth2 authorization server domain models.
// Implements the authorization-code grant with PKCE, refresh-token rotation
// with family revocation, and the redirect trust boundary for the
// authorization endpoint.
package domain

// GrantType identifies the token endpoint grant being exercised.
type GrantType string

const (
	// GrantTypeAuthorizationCode exchanges an authorization code for a token pair.
	GrantTypeAuthorizationCode GrantType = "authorization_code"

	// GrantTypeRefreshToken rotates a refresh token into a new token pair.
	GrantTypeRefreshToken GrantType = "refresh_token"
)

// ResponseType identifies the authorization endpoint response type.
type ResponseType string

const (
	// ResponseTypeCode is the only supported response type (authorization-code flow).
	ResponseTypeCode ResponseType = "code"
)

// CodeChallengeMethod identifies how a PKCE code verifier is transformed
// into the code challenge presented at the authorization endpoint.
type CodeChallengeMethod string

const (
	// CodeChallengeMethodS256 hashes the verifier with SHA-256 and base64url-encodes it.
	CodeChallengeMethodS256 CodeChallengeMethod = "S256"

	// CodeChallengeMethodPlain compares the verifier to the challenge directly.
	// Accepted for compatibility with legacy clients but discouraged.
	CodeChallengeMethodPlain CodeChallengeMethod = "plain"
)

// TokenTypeBearer is the token_type value returned with every token pair.
const TokenTypeBearer = "Bearer"

// Standard scope names recognized by the userinfo endpoint.
const (
	ScopeOpenID  = "openid"
	ScopeProfile = "profile"
	ScopeEmail   = "email"
)

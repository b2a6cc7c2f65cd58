package domain

import (
	"time"

	"github.com/google/uuid"
)

// BeginAuthorizationInput carries the validated authorization endpoint
// parameters into the flow.
type BeginAuthorizationInput struct {
	ClientID            uuid.UUID
	RedirectURI         string
	Scope               string // Raw space-delimited scope string
	State               string
	CodeChallenge       string
	CodeChallengeMethod string
}

// BeginAuthorizationResult is the three-way outcome of Begin. Exactly one
// of Request or Redirect is set: Request on success (the consent UI takes
// over), Redirect when the redirect URI is trusted but the request failed
// (e.g. invalid_scope). Pre-trust failures are returned as an
// *AuthorizeFailure error instead.
type BeginAuthorizationResult struct {
	Request  *AuthorizationRequest
	Redirect *AuthorizeRedirect
}

// ConsentTicket is the client display data the consent UI renders.
type ConsentTicket struct {
	RequestID         uuid.UUID
	ClientName        string
	ClientDescription string
	Scopes            []string
	ExpiresAt         time.Time
}

// ExchangeCodeInput carries the authorization_code grant parameters.
type ExchangeCodeInput struct {
	Code         string
	ClientID     uuid.UUID
	ClientSecret string
	RedirectURI  string
	CodeVerifier string
}

// RefreshTokenInput carries the refresh_token grant parameters.
type RefreshTokenInput struct {
	RefreshToken string
	ClientID     uuid.UUID
	ClientSecret string
}

// RevokeTokenInput carries the revocation endpoint parameters.
type RevokeTokenInput struct {
	Token        string
	ClientID     uuid.UUID
	ClientSecret string
}

// TokenPairOutput is the success shape of the token endpoint.
type TokenPairOutput struct {
	AccessToken  string
	TokenType    string
	ExpiresIn    int64 // Seconds until the access token expires
	RefreshToken string
	Scopes       []string
}

// TokenInfo is the validated identity carried by an active access token.
type TokenInfo struct {
	UserID    uuid.UUID
	ClientID  uuid.UUID
	TenantID  uuid.UUID
	Scopes    []string
	ExpiresAt time.Time
}

// CreateClientInput carries the parameters for registering a new client.
type CreateClientInput struct {
	TenantID      uuid.UUID
	Name          string
	Description   string
	RedirectURIs  []string
	AllowedScopes []string
	Public        bool // Public clients get no secret and must use PKCE
}

// CreateClientOutput returns the new client ID and, for confidential
// clients, the plain secret. The plain secret is only returned once.
type CreateClientOutput struct {
	ClientID    uuid.UUID
	PlainSecret string // Empty for public clients
}

// SweepResult reports how many rows each cleanup category removed.
// Categories that failed are reported in Failed and retried next tick.
type SweepResult struct {
	AuthorizationRequests int64
	AuthorizationCodes    int64
	AccessTokens          int64
	RefreshTokens         int64
	Failed                []string // Names of categories whose sweep failed
}

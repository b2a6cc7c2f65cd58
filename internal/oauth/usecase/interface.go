// Package usecase defines business logic interfaces for the OAuth2 flows.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

// ClientRepository defines persistence operations for OAuth2 clients.
// Implementations must support transaction-aware operations via context propagation.
type ClientRepository interface {
	// Create stores a new client in the repository.
	Create(ctx context.Context, client *oauthDomain.Client) error

	// Update modifies an existing client in the repository.
	Update(ctx context.Context, client *oauthDomain.Client) error

	// Get retrieves a client by ID. Returns ErrClientNotFound if not found.
	Get(ctx context.Context, clientID uuid.UUID) (*oauthDomain.Client, error)
}

// AuthorizationRequestRepository defines persistence operations for pending
// consent tickets.
type AuthorizationRequestRepository interface {
	// Create stores a new authorization request.
	Create(ctx context.Context, request *oauthDomain.AuthorizationRequest) error

	// Get retrieves a request by ID. Returns ErrAuthorizationRequestNotFound
	// if not found.
	Get(ctx context.Context, requestID uuid.UUID) (*oauthDomain.AuthorizationRequest, error)

	// AttachUser binds the authenticated user to an unconsumed, unexpired
	// request. Returns ErrAuthorizationRequestNotFound otherwise.
	AttachUser(ctx context.Context, requestID uuid.UUID, userID uuid.UUID, now time.Time) error

	// Consume flips the consumed flag exactly once. Returns false when the
	// request was already consumed by a concurrent decision.
	Consume(ctx context.Context, requestID uuid.UUID) (bool, error)

	// DeleteExpired removes requests whose expiry has passed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuthorizationCodeRepository defines persistence operations for
// authorization codes.
type AuthorizationCodeRepository interface {
	// Create stores a new authorization code.
	Create(ctx context.Context, code *oauthDomain.AuthorizationCode) error

	// GetByCodeHash retrieves a code by its hashed value. Returns
	// ErrAuthorizationCodeNotFound if not found.
	GetByCodeHash(ctx context.Context, codeHash string) (*oauthDomain.AuthorizationCode, error)

	// MarkUsed flips the used flag exactly once. Returns false when the code
	// was already used by a concurrent exchange.
	MarkUsed(ctx context.Context, codeID uuid.UUID) (bool, error)

	// DeleteExpired removes codes whose expiry has passed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AccessTokenRepository defines persistence operations for access tokens.
type AccessTokenRepository interface {
	// Create stores a new access token.
	Create(ctx context.Context, token *oauthDomain.AccessToken) error

	// GetByTokenHash retrieves a token by its hashed value. Returns
	// ErrAccessTokenNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*oauthDomain.AccessToken, error)

	// Revoke marks the token revoked.
	Revoke(ctx context.Context, tokenID uuid.UUID, now time.Time) error

	// RevokeFamily revokes every token descended from the same grant.
	RevokeFamily(ctx context.Context, familyID uuid.UUID, now time.Time) error

	// DeleteExpired removes tokens whose expiry has passed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RefreshTokenRepository defines persistence operations for refresh tokens.
type RefreshTokenRepository interface {
	// Create stores a new refresh token.
	Create(ctx context.Context, token *oauthDomain.RefreshToken) error

	// GetByTokenHash retrieves a token by its hashed value. Returns
	// ErrRefreshTokenNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*oauthDomain.RefreshToken, error)

	// Rotate marks the token rotated and links its replacement. Returns false
	// when the token was already rotated by a concurrent refresh.
	Rotate(ctx context.Context, tokenID uuid.UUID, replacedBy uuid.UUID, now time.Time) (bool, error)

	// Revoke marks the token revoked.
	Revoke(ctx context.Context, tokenID uuid.UUID, now time.Time) error

	// RevokeFamily revokes every token descended from the same grant.
	RevokeFamily(ctx context.Context, familyID uuid.UUID, now time.Time) error

	// DeleteExpired removes tokens whose expiry has passed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AuthorizeUseCase runs the authorization endpoint flow up to the consent UI.
type AuthorizeUseCase interface {
	// Begin validates an authorization request in order: client exists and is
	// active, redirect URI is registered, granted scope is non-empty, PKCE
	// method is supported. Pre-trust failures are returned as an
	// *AuthorizeFailure error (render an error page, never redirect);
	// post-trust failures come back as a Redirect result.
	Begin(
		ctx context.Context,
		input *oauthDomain.BeginAuthorizationInput,
	) (*oauthDomain.BeginAuthorizationResult, error)

	// AttachUser binds the authenticated session user to the request once.
	// Fails with ErrAuthorizationRequestNotFound if the request is missing,
	// expired, or already consumed, and fails closed when the user's tenant
	// does not match the client's.
	AttachUser(ctx context.Context, requestID, userID, tenantID uuid.UUID) error

	// GetTicket returns the client display data the consent UI renders.
	GetTicket(ctx context.Context, requestID, tenantID uuid.UUID) (*oauthDomain.ConsentTicket, error)
}

// ConsentUseCase applies the user's consent decision to a pending request.
type ConsentUseCase interface {
	// Decide consumes the request exactly once and builds the redirect back
	// to the client: an authorization code on approval, access_denied on
	// denial. An invalid ticket is an *AuthorizeFailure error (error page,
	// not redirect).
	Decide(
		ctx context.Context,
		requestID uuid.UUID,
		userID uuid.UUID,
		tenantID uuid.UUID,
		approved bool,
	) (*oauthDomain.AuthorizeRedirect, error)
}

// TokenUseCase mints, exchanges, refreshes, and revokes token credentials.
type TokenUseCase interface {
	// IssueCode mints a single-use authorization code from a consumed
	// request. Returns the plain code value for the redirect.
	IssueCode(
		ctx context.Context,
		request *oauthDomain.AuthorizationRequest,
		userID uuid.UUID,
	) (string, error)

	// Exchange trades an authorization code for a token pair. Protocol
	// failures are *OAuth2Error values.
	Exchange(
		ctx context.Context,
		input *oauthDomain.ExchangeCodeInput,
	) (*oauthDomain.TokenPairOutput, error)

	// Refresh rotates a refresh token into a new token pair. Reuse of an
	// already-rotated token revokes the whole family.
	Refresh(
		ctx context.Context,
		input *oauthDomain.RefreshTokenInput,
	) (*oauthDomain.TokenPairOutput, error)

	// Revoke revokes the presented token (access or refresh) for an
	// authenticated client. Unknown tokens are not an error (RFC 7009).
	Revoke(ctx context.Context, input *oauthDomain.RevokeTokenInput) error
}

// ValidateUseCase checks bearer tokens on the resource side.
type ValidateUseCase interface {
	// Validate hashes the presented bearer token and checks, in order, that
	// it exists, is not expired, and is not revoked. Fails closed on storage
	// errors: any failure is ErrUnauthorized, never a false positive.
	Validate(ctx context.Context, bearerToken string) (*oauthDomain.TokenInfo, error)
}

// ClientUseCase manages client registration from the CLI.
type ClientUseCase interface {
	// Create registers a new client. Confidential clients get a generated
	// secret returned exactly once.
	Create(
		ctx context.Context,
		input *oauthDomain.CreateClientInput,
	) (*oauthDomain.CreateClientOutput, error)

	// RotateSecret replaces a confidential client's secret and returns the
	// new plain secret exactly once.
	RotateSecret(ctx context.Context, clientID uuid.UUID) (string, error)
}

// CleanupUseCase sweeps expired credentials.
type CleanupUseCase interface {
	// Sweep deletes expired authorization requests, codes, access tokens,
	// and refresh tokens. A failure in one category does not prevent the
	// others from being swept; failed categories are named in the result.
	Sweep(ctx context.Context) (*oauthDomain.SweepResult, error)
}

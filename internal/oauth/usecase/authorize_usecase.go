// Package usecase implements business logic orchestration for the OAuth2 flows.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/authflow/authflow/internal/config"
	apperrors "github.com/authflow/authflow/internal/errors"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

// authorizeUseCase implements AuthorizeUseCase.
type authorizeUseCase struct {
	config      *config.Config
	clientRepo  ClientRepository
	requestRepo AuthorizationRequestRepository
	logger      *slog.Logger
}

// Begin validates an authorization request and creates a pending consent
// ticket.
//
// Validation order matters for the redirect trust boundary:
//  1. Client must exist and be active. Failure is an error page
//     (invalid_client): nothing about the request can be trusted yet.
//  2. Redirect URI must exactly match a registered URI. Failure is an error
//     page (invalid_request): redirecting to an unverified target would hand
//     the authorization response to an attacker.
//  3. Scope intersection must be non-empty. The redirect URI is trusted at
//     this point, so the failure redirects back with invalid_scope.
//  4. PKCE method, when supplied, must be S256 or plain. The plain method is
//     accepted only when configured, and logged as discouraged.
func (a *authorizeUseCase) Begin(
	ctx context.Context,
	input *oauthDomain.BeginAuthorizationInput,
) (*oauthDomain.BeginAuthorizationResult, error) {
	// 1. Client lookup: failure renders an error page
	client, err := a.clientRepo.Get(ctx, input.ClientID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, &oauthDomain.AuthorizeFailure{
				Code:        oauthDomain.ErrorCodeInvalidClient,
				Description: "unknown client",
			}
		}
		return nil, err
	}
	if !client.IsActive {
		return nil, &oauthDomain.AuthorizeFailure{
			Code:        oauthDomain.ErrorCodeInvalidClient,
			Description: "client is not active",
		}
	}

	// 2. Redirect URI: exact match only, failure renders an error page
	if input.RedirectURI == "" || !client.HasRedirectURI(input.RedirectURI) {
		return nil, &oauthDomain.AuthorizeFailure{
			Code:        oauthDomain.ErrorCodeInvalidRequest,
			Description: "redirect_uri is missing or not registered for this client",
		}
	}

	// The redirect URI is trusted from here on: failures redirect back

	// 3. Scope intersection
	granted := client.GrantScopes(oauthDomain.ParseScope(input.Scope))
	if len(granted) == 0 {
		redirect := oauthDomain.NewErrorRedirect(
			input.RedirectURI,
			input.State,
			oauthDomain.ErrorCodeInvalidScope,
		)
		return &oauthDomain.BeginAuthorizationResult{Redirect: redirect}, nil
	}

	// 4. PKCE method
	method := oauthDomain.CodeChallengeMethod(input.CodeChallengeMethod)
	if input.CodeChallenge != "" && method == "" {
		// RFC 7636 defaults the method to plain when omitted
		method = oauthDomain.CodeChallengeMethodPlain
	}
	if input.CodeChallenge != "" {
		switch method {
		case oauthDomain.CodeChallengeMethodS256:
		case oauthDomain.CodeChallengeMethodPlain:
			if !a.config.PKCEAllowPlain {
				redirect := oauthDomain.NewErrorRedirect(
					input.RedirectURI,
					input.State,
					oauthDomain.ErrorCodeInvalidRequest,
				)
				return &oauthDomain.BeginAuthorizationResult{Redirect: redirect}, nil
			}
			a.logger.Warn("client used discouraged plain code challenge method",
				slog.String("client_id", client.ID.String()),
			)
		default:
			redirect := oauthDomain.NewErrorRedirect(
				input.RedirectURI,
				input.State,
				oauthDomain.ErrorCodeInvalidRequest,
			)
			return &oauthDomain.BeginAuthorizationResult{Redirect: redirect}, nil
		}
	} else {
		method = ""
	}

	now := time.Now().UTC()
	request := &oauthDomain.AuthorizationRequest{
		ID:                  uuid.Must(uuid.NewV7()),
		ClientID:            client.ID,
		TenantID:            client.TenantID,
		Scopes:              granted,
		RedirectURI:         input.RedirectURI,
		State:               input.State,
		CodeChallenge:       input.CodeChallenge,
		CodeChallengeMethod: method,
		Consumed:            false,
		ExpiresAt:           now.Add(a.config.AuthorizationRequestExpiration),
		CreatedAt:           now,
	}

	if err := a.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	return &oauthDomain.BeginAuthorizationResult{Request: request}, nil
}

// AttachUser binds the authenticated session user to the request once.
// Fails closed when the user's tenant does not match the client's tenant.
func (a *authorizeUseCase) AttachUser(ctx context.Context, requestID, userID, tenantID uuid.UUID) error {
	request, err := a.requestRepo.Get(ctx, requestID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if request.IsExpired(now) || request.Consumed {
		return oauthDomain.ErrAuthorizationRequestNotFound
	}

	// Cross-tenant references are forbidden
	if request.TenantID != tenantID {
		return apperrors.Wrap(apperrors.ErrForbidden, "authorization request belongs to another tenant")
	}

	return a.requestRepo.AttachUser(ctx, requestID, userID, now)
}

// GetTicket returns the client display data for the consent UI.
func (a *authorizeUseCase) GetTicket(
	ctx context.Context,
	requestID, tenantID uuid.UUID,
) (*oauthDomain.ConsentTicket, error) {
	request, err := a.requestRepo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if request.IsExpired(now) || request.Consumed {
		return nil, oauthDomain.ErrAuthorizationRequestNotFound
	}
	if request.TenantID != tenantID {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "authorization request belongs to another tenant")
	}

	client, err := a.clientRepo.Get(ctx, request.ClientID)
	if err != nil {
		return nil, err
	}

	return &oauthDomain.ConsentTicket{
		RequestID:         request.ID,
		ClientName:        client.Name,
		ClientDescription: client.Description,
		Scopes:            request.Scopes,
		ExpiresAt:         request.ExpiresAt,
	}, nil
}

// NewAuthorizeUseCase creates a new AuthorizeUseCase.
func NewAuthorizeUseCase(
	cfg *config.Config,
	clientRepo ClientRepository,
	requestRepo AuthorizationRequestRepository,
	logger *slog.Logger,
) AuthorizeUseCase {
	return &authorizeUseCase{
		config:      cfg,
		clientRepo:  clientRepo,
		requestRepo: requestRepo,
		logger:      logger,
	}
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/authflow/authflow/internal/errors"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

// consentUseCase implements ConsentUseCase.
type consentUseCase struct {
	requestRepo  AuthorizationRequestRepository
	tokenUseCase TokenUseCase
	logger       *slog.Logger
}

// Decide consumes the request exactly once and builds the redirect back to
// the client. The request must still be valid, belong to the caller's tenant,
// and be bound to the deciding user; any of these failing is an error page,
// never a redirect.
func (c *consentUseCase) Decide(
	ctx context.Context,
	requestID uuid.UUID,
	userID uuid.UUID,
	tenantID uuid.UUID,
	approved bool,
) (*oauthDomain.AuthorizeRedirect, error) {
	request, err := c.requestRepo.Get(ctx, requestID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, &oauthDomain.AuthorizeFailure{
				Code:        oauthDomain.ErrorCodeInvalidRequest,
				Description: "unknown authorization request",
			}
		}
		return nil, err
	}

	now := time.Now().UTC()
	if request.IsExpired(now) || request.Consumed {
		return nil, &oauthDomain.AuthorizeFailure{
			Code:        oauthDomain.ErrorCodeInvalidRequest,
			Description: "authorization request has expired or was already decided",
		}
	}

	// Fail closed on any tenant or user mismatch: the redirect URI belongs
	// to a request this session has no claim on
	if request.TenantID != tenantID {
		c.logger.Warn("consent decision rejected for cross-tenant request",
			slog.String("request_id", requestID.String()),
		)
		return nil, &oauthDomain.AuthorizeFailure{
			Code:        oauthDomain.ErrorCodeAccessDenied,
			Description: "authorization request belongs to another tenant",
		}
	}
	if request.UserID != nil && *request.UserID != userID {
		return nil, &oauthDomain.AuthorizeFailure{
			Code:        oauthDomain.ErrorCodeAccessDenied,
			Description: "authorization request is bound to another user",
		}
	}

	// Exactly one decision wins; the loser of a concurrent double-submit
	// gets an error page instead of a second redirect
	consumed, err := c.requestRepo.Consume(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, &oauthDomain.AuthorizeFailure{
			Code:        oauthDomain.ErrorCodeInvalidRequest,
			Description: "authorization request was already decided",
		}
	}

	if !approved {
		return oauthDomain.NewErrorRedirect(
			request.RedirectURI,
			request.State,
			oauthDomain.ErrorCodeAccessDenied,
		), nil
	}

	code, err := c.tokenUseCase.IssueCode(ctx, request, userID)
	if err != nil {
		return nil, err
	}

	return oauthDomain.NewCodeRedirect(request.RedirectURI, request.State, code), nil
}

// NewConsentUseCase creates a new ConsentUseCase.
func NewConsentUseCase(
	requestRepo AuthorizationRequestRepository,
	tokenUseCase TokenUseCase,
	logger *slog.Logger,
) ConsentUseCase {
	return &consentUseCase{
		requestRepo:  requestRepo,
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

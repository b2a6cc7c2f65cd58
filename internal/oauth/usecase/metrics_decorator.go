package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/authflow/authflow/internal/metrics"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

// record emits the operation counter and duration histogram for one call.
func record(ctx context.Context, m metrics.BusinessMetrics, domain, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

// authorizeUseCaseWithMetrics decorates AuthorizeUseCase with metrics instrumentation.
type authorizeUseCaseWithMetrics struct {
	next    AuthorizeUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthorizeUseCaseWithMetrics wraps an AuthorizeUseCase with metrics recording.
func NewAuthorizeUseCaseWithMetrics(useCase AuthorizeUseCase, m metrics.BusinessMetrics) AuthorizeUseCase {
	return &authorizeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *authorizeUseCaseWithMetrics) Begin(
	ctx context.Context,
	input *oauthDomain.BeginAuthorizationInput,
) (*oauthDomain.BeginAuthorizationResult, error) {
	start := time.Now()
	result, err := a.next.Begin(ctx, input)
	record(ctx, a.metrics, "oauth", "authorize_begin", start, err)
	return result, err
}

func (a *authorizeUseCaseWithMetrics) AttachUser(ctx context.Context, requestID, userID, tenantID uuid.UUID) error {
	start := time.Now()
	err := a.next.AttachUser(ctx, requestID, userID, tenantID)
	record(ctx, a.metrics, "oauth", "authorize_attach_user", start, err)
	return err
}

func (a *authorizeUseCaseWithMetrics) GetTicket(
	ctx context.Context,
	requestID, tenantID uuid.UUID,
) (*oauthDomain.ConsentTicket, error) {
	start := time.Now()
	ticket, err := a.next.GetTicket(ctx, requestID, tenantID)
	record(ctx, a.metrics, "oauth", "authorize_get_ticket", start, err)
	return ticket, err
}

// consentUseCaseWithMetrics decorates ConsentUseCase with metrics instrumentation.
type consentUseCaseWithMetrics struct {
	next    ConsentUseCase
	metrics metrics.BusinessMetrics
}

// NewConsentUseCaseWithMetrics wraps a ConsentUseCase with metrics recording.
func NewConsentUseCaseWithMetrics(useCase ConsentUseCase, m metrics.BusinessMetrics) ConsentUseCase {
	return &consentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *consentUseCaseWithMetrics) Decide(
	ctx context.Context,
	requestID uuid.UUID,
	userID uuid.UUID,
	tenantID uuid.UUID,
	approved bool,
) (*oauthDomain.AuthorizeRedirect, error) {
	start := time.Now()
	redirect, err := c.next.Decide(ctx, requestID, userID, tenantID, approved)
	record(ctx, c.metrics, "oauth", "consent_decide", start, err)
	return redirect, err
}

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenUseCaseWithMetrics) IssueCode(
	ctx context.Context,
	request *oauthDomain.AuthorizationRequest,
	userID uuid.UUID,
) (string, error) {
	start := time.Now()
	code, err := t.next.IssueCode(ctx, request, userID)
	record(ctx, t.metrics, "oauth", "code_issue", start, err)
	return code, err
}

func (t *tokenUseCaseWithMetrics) Exchange(
	ctx context.Context,
	input *oauthDomain.ExchangeCodeInput,
) (*oauthDomain.TokenPairOutput, error) {
	start := time.Now()
	output, err := t.next.Exchange(ctx, input)
	record(ctx, t.metrics, "oauth", "token_exchange", start, err)
	return output, err
}

func (t *tokenUseCaseWithMetrics) Refresh(
	ctx context.Context,
	input *oauthDomain.RefreshTokenInput,
) (*oauthDomain.TokenPairOutput, error) {
	start := time.Now()
	output, err := t.next.Refresh(ctx, input)
	record(ctx, t.metrics, "oauth", "token_refresh", start, err)
	return output, err
}

func (t *tokenUseCaseWithMetrics) Revoke(ctx context.Context, input *oauthDomain.RevokeTokenInput) error {
	start := time.Now()
	err := t.next.Revoke(ctx, input)
	record(ctx, t.metrics, "oauth", "token_revoke", start, err)
	return err
}

// validateUseCaseWithMetrics decorates ValidateUseCase with metrics instrumentation.
type validateUseCaseWithMetrics struct {
	next    ValidateUseCase
	metrics metrics.BusinessMetrics
}

// NewValidateUseCaseWithMetrics wraps a ValidateUseCase with metrics recording.
func NewValidateUseCaseWithMetrics(useCase ValidateUseCase, m metrics.BusinessMetrics) ValidateUseCase {
	return &validateUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *validateUseCaseWithMetrics) Validate(ctx context.Context, bearerToken string) (*oauthDomain.TokenInfo, error) {
	start := time.Now()
	info, err := v.next.Validate(ctx, bearerToken)
	record(ctx, v.metrics, "oauth", "token_validate", start, err)
	return info, err
}

// cleanupUseCaseWithMetrics decorates CleanupUseCase with metrics instrumentation.
type cleanupUseCaseWithMetrics struct {
	next    CleanupUseCase
	metrics metrics.BusinessMetrics
}

// NewCleanupUseCaseWithMetrics wraps a CleanupUseCase with metrics recording.
func NewCleanupUseCaseWithMetrics(useCase CleanupUseCase, m metrics.BusinessMetrics) CleanupUseCase {
	return &cleanupUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *cleanupUseCaseWithMetrics) Sweep(ctx context.Context) (*oauthDomain.SweepResult, error) {
	start := time.Now()
	result, err := c.next.Sweep(ctx)
	record(ctx, c.metrics, "cleanup", "sweep", start, err)
	return result, err
}

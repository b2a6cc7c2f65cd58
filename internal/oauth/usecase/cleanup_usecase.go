package usecase

import (
	"context"
	"log/slog"
	"time"

	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

// cleanupUseCase implements CleanupUseCase.
type cleanupUseCase struct {
	requestRepo      AuthorizationRequestRepository
	codeRepo         AuthorizationCodeRepository
	accessTokenRepo  AccessTokenRepository
	refreshTokenRepo RefreshTokenRepository
	logger           *slog.Logger
}

// Sweep deletes expired credentials category by category. A failing
// category is logged and named in the result; the remaining categories are
// still swept, and the failed ones are retried on the next tick.
func (c *cleanupUseCase) Sweep(ctx context.Context) (*oauthDomain.SweepResult, error) {
	now := time.Now().UTC()
	result := &oauthDomain.SweepResult{}

	sweeps := []struct {
		name   string
		delete func(ctx context.Context, now time.Time) (int64, error)
		count  *int64
	}{
		{"authorization_requests", c.requestRepo.DeleteExpired, &result.AuthorizationRequests},
		{"authorization_codes", c.codeRepo.DeleteExpired, &result.AuthorizationCodes},
		{"access_tokens", c.accessTokenRepo.DeleteExpired, &result.AccessTokens},
		{"refresh_tokens", c.refreshTokenRepo.DeleteExpired, &result.RefreshTokens},
	}

	for _, sweep := range sweeps {
		deleted, err := sweep.delete(ctx, now)
		if err != nil {
			c.logger.Error("cleanup sweep failed",
				slog.String("category", sweep.name),
				slog.String("error", err.Error()),
			)
			result.Failed = append(result.Failed, sweep.name)
			continue
		}
		*sweep.count = deleted
	}

	return result, nil
}

// NewCleanupUseCase creates a new CleanupUseCase.
func NewCleanupUseCase(
	requestRepo AuthorizationRequestRepository,
	codeRepo AuthorizationCodeRepository,
	accessTokenRepo AccessTokenRepository,
	refreshTokenRepo RefreshTokenRepository,
	logger *slog.Logger,
) CleanupUseCase {
	return &cleanupUseCase{
		requestRepo:      requestRepo,
		codeRepo:         codeRepo,
		accessTokenRepo:  accessTokenRepo,
		refreshTokenRepo: refreshTokenRepo,
		logger:           logger,
	}
}

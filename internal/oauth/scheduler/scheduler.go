// Package scheduler runs the periodic sweep of expired OAuth2 credentials.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/authflow/authflow/internal/oauth/usecase"
)

// Scheduler drives the cleanup use case on a fixed interval. One sweep runs
// immediately at start so a restarted server does not wait a full interval
// with a backlog of expired rows.
type Scheduler struct {
	cleanupUseCase usecase.CleanupUseCase
	interval       time.Duration
	logger         *slog.Logger
}

// NewScheduler creates a new cleanup scheduler.
func NewScheduler(cleanupUseCase usecase.CleanupUseCase, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cleanupUseCase: cleanupUseCase,
		interval:       interval,
		logger:         logger,
	}
}

// Start runs the sweep loop until the context is cancelled. It blocks, so
// callers run it in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("starting cleanup scheduler",
			slog.Duration("interval", s.interval),
		)
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.Info("stopping cleanup scheduler")
			}
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one cleanup pass and logs the outcome. Sweep failures are
// logged and swallowed so a bad pass never stops the loop.
func (s *Scheduler) sweep(ctx context.Context) {
	result, err := s.cleanupUseCase.Sweep(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("cleanup sweep failed", slog.Any("error", err))
		}
		return
	}

	if s.logger != nil {
		s.logger.Info("cleanup sweep completed",
			slog.Int64("authorization_requests", result.AuthorizationRequests),
			slog.Int64("authorization_codes", result.AuthorizationCodes),
			slog.Int64("access_tokens", result.AccessTokens),
			slog.Int64("refresh_tokens", result.RefreshTokens),
			slog.Int("failed_categories", len(result.Failed)),
		)
	}
}

package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
	oauthMocks "github.com/authflow/authflow/internal/oauth/usecase/mocks"
)

func TestRunCleanExpired(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("text", func(t *testing.T) {
		mockUseCase := &oauthMocks.MockCleanupUseCase{}
		result := &oauthDomain.SweepResult{
			AuthorizationRequests: 3,
			AuthorizationCodes:    2,
			AccessTokens:          10,
			RefreshTokens:         4,
		}

		mockUseCase.On("Sweep", ctx).Return(result, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: nil,
			Writer: &out,
		}

		err := RunCleanExpired(ctx, mockUseCase, logger, "text", io)

		require.NoError(t, err)
		require.Contains(t, out.String(), "Sweep completed")
		require.Contains(t, out.String(), "Authorization requests: 3")
		require.Contains(t, out.String(), "Access tokens:          10")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json", func(t *testing.T) {
		mockUseCase := &oauthMocks.MockCleanupUseCase{}
		result := &oauthDomain.SweepResult{
			AuthorizationRequests: 1,
			RefreshTokens:         2,
		}

		mockUseCase.On("Sweep", ctx).Return(result, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: nil,
			Writer: &out,
		}

		err := RunCleanExpired(ctx, mockUseCase, logger, "json", io)

		require.NoError(t, err)
		require.Contains(t, out.String(), `"authorization_requests": 1`)
		require.Contains(t, out.String(), `"refresh_tokens": 2`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("failed-categories", func(t *testing.T) {
		mockUseCase := &oauthMocks.MockCleanupUseCase{}
		result := &oauthDomain.SweepResult{
			AuthorizationRequests: 1,
			Failed:                []string{"access_tokens"},
		}

		mockUseCase.On("Sweep", ctx).Return(result, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: nil,
			Writer: &out,
		}

		err := RunCleanExpired(ctx, mockUseCase, logger, "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "sweep failed for categories")
		require.Contains(t, out.String(), "access_tokens")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &oauthMocks.MockCleanupUseCase{}
		mockUseCase.On("Sweep", ctx).Return(nil, assert.AnError)

		io := IOTuple{
			Reader: nil,
			Writer: &bytes.Buffer{},
		}

		err := RunCleanExpired(ctx, mockUseCase, logger, "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to sweep expired credentials")
		mockUseCase.AssertExpectations(t)
	})
}

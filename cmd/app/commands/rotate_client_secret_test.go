package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oauthMocks "github.com/authflow/authflow/internal/oauth/usecase/mocks"
)

func TestRunRotateClientSecret(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	clientID := uuid.Must(uuid.NewV7())
	plainSecret := "new-secret"

	t.Run("text", func(t *testing.T) {
		mockUseCase := &oauthMocks.MockClientUseCase{}
		mockUseCase.On("RotateSecret", ctx, clientID).Return(plainSecret, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: nil,
			Writer: &out,
		}

		err := RunRotateClientSecret(ctx, mockUseCase, logger, clientID.String(), "text", io)

		require.NoError(t, err)
		require.Contains(t, out.String(), clientID.String())
		require.Contains(t, out.String(), plainSecret)
		require.Contains(t, out.String(), "shown only once")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json", func(t *testing.T) {
		mockUseCase := &oauthMocks.MockClientUseCase{}
		mockUseCase.On("RotateSecret", ctx, clientID).Return(plainSecret, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: nil,
			Writer: &out,
		}

		err := RunRotateClientSecret(ctx, mockUseCase, logger, clientID.String(), "json", io)

		require.NoError(t, err)
		require.Contains(t, out.String(), clientID.String())
		require.Contains(t, out.String(), plainSecret)
		require.Contains(t, out.String(), "{") // Should be JSON
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-client-id", func(t *testing.T) {
		mockUseCase := &oauthMocks.MockClientUseCase{}
		io := IOTuple{
			Reader: nil,
			Writer: &bytes.Buffer{},
		}

		err := RunRotateClientSecret(ctx, mockUseCase, logger, "not-a-uuid", "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "client-id must be a valid UUID")
		mockUseCase.AssertNotCalled(t, "RotateSecret")
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &oauthMocks.MockClientUseCase{}
		mockUseCase.On("RotateSecret", ctx, clientID).Return("", assert.AnError)

		io := IOTuple{
			Reader: nil,
			Writer: &bytes.Buffer{},
		}

		err := RunRotateClientSecret(ctx, mockUseCase, logger, clientID.String(), "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to rotate client secret")
		mockUseCase.AssertExpectations(t)
	})
}

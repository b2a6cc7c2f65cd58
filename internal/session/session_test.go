package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/authflow/authflow/internal/errors"
)

// mockRepository is a mock implementation of Repository for testing.
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func hashSessionToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func TestAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_LiveSession", func(t *testing.T) {
		mockRepo := &mockRepository{}

		token := "plain-session-token"
		stored := &Session{
			ID:        uuid.Must(uuid.NewV7()),
			UserID:    uuid.Must(uuid.NewV7()),
			TenantID:  uuid.Must(uuid.NewV7()),
			TokenHash: hashSessionToken(token),
			ExpiresAt: time.Now().UTC().Add(time.Hour),
			CreatedAt: time.Now().UTC(),
		}

		mockRepo.On("GetByTokenHash", ctx, hashSessionToken(token)).
			Return(stored, nil).
			Once()

		auth := NewAuthenticator(mockRepo)
		session, err := auth.Authenticate(ctx, token)

		assert.NoError(t, err)
		assert.Equal(t, stored.UserID, session.UserID)
		assert.Equal(t, stored.TenantID, session.TenantID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_EmptyToken", func(t *testing.T) {
		mockRepo := &mockRepository{}

		auth := NewAuthenticator(mockRepo)
		session, err := auth.Authenticate(ctx, "")

		assert.Nil(t, session)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		mockRepo.AssertNotCalled(t, "GetByTokenHash", mock.Anything, mock.Anything)
	})

	t.Run("Error_UnknownToken", func(t *testing.T) {
		mockRepo := &mockRepository{}

		mockRepo.On("GetByTokenHash", ctx, hashSessionToken("bogus")).
			Return(nil, ErrSessionNotFound).
			Once()

		auth := NewAuthenticator(mockRepo)
		session, err := auth.Authenticate(ctx, "bogus")

		assert.Nil(t, session)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Error_ExpiredSession", func(t *testing.T) {
		mockRepo := &mockRepository{}

		token := "plain-session-token"
		stored := &Session{
			ID:        uuid.Must(uuid.NewV7()),
			TokenHash: hashSessionToken(token),
			ExpiresAt: time.Now().UTC().Add(-time.Minute),
		}

		mockRepo.On("GetByTokenHash", ctx, hashSessionToken(token)).
			Return(stored, nil).
			Once()

		auth := NewAuthenticator(mockRepo)
		session, err := auth.Authenticate(ctx, token)

		assert.Nil(t, session)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Error_StorageFailureFailsClosed", func(t *testing.T) {
		mockRepo := &mockRepository{}

		mockRepo.On("GetByTokenHash", ctx, mock.AnythingOfType("string")).
			Return(nil, errors.New("connection refused")).
			Once()

		auth := NewAuthenticator(mockRepo)
		session, err := auth.Authenticate(ctx, "plain-session-token")

		assert.Nil(t, session)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

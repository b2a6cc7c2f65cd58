package session

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgreSQLRepository_GetByTokenHash(t *testing.T) {
	t.Run("Success_GetSession", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLRepository(db)

		sessionID := uuid.New()
		userID := uuid.New()
		tenantID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "user_id", "tenant_id", "token_hash", "expires_at", "created_at",
		}).AddRow(
			sessionID, userID, tenantID, "abc123hash", now.Add(time.Hour), now,
		)

		mock.ExpectQuery("SELECT (.+) FROM sessions WHERE token_hash =").
			WithArgs("abc123hash").
			WillReturnRows(rows)

		session, err := repo.GetByTokenHash(context.Background(), "abc123hash")
		require.NoError(t, err)

		assert.Equal(t, sessionID, session.ID)
		assert.Equal(t, userID, session.UserID)
		assert.Equal(t, tenantID, session.TenantID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure_SessionNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM sessions WHERE token_hash =").
			WithArgs("unknown-hash").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "tenant_id", "token_hash", "expires_at", "created_at",
			}))

		session, err := repo.GetByTokenHash(context.Background(), "unknown-hash")
		assert.Nil(t, session)
		assert.ErrorIs(t, err, ErrSessionNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

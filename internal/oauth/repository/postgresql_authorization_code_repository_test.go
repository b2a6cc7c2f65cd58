package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

func TestPostgreSQLAuthorizationCodeRepository_MarkUsed(t *testing.T) {
	t.Run("Success_FirstExchangeWins", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAuthorizationCodeRepository(db)
		codeID := uuid.New()

		mock.ExpectExec("UPDATE oauth2_authorization_codes").
			WithArgs(codeID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		used, err := repo.MarkUsed(context.Background(), codeID)
		require.NoError(t, err)
		assert.True(t, used)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure_CodeAlreadyUsed", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAuthorizationCodeRepository(db)
		codeID := uuid.New()

		mock.ExpectExec("UPDATE oauth2_authorization_codes").
			WithArgs(codeID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		used, err := repo.MarkUsed(context.Background(), codeID)
		require.NoError(t, err)
		assert.False(t, used)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLAuthorizationCodeRepository_GetByCodeHash(t *testing.T) {
	t.Run("Success_GetCode", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAuthorizationCodeRepository(db)

		codeID := uuid.New()
		clientID := uuid.New()
		tenantID := uuid.New()
		userID := uuid.New()
		now := time.Now()
		codeHash := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

		rows := sqlmock.NewRows([]string{
			"id", "code_hash", "client_id", "tenant_id", "user_id", "scopes",
			"redirect_uri", "code_challenge", "code_challenge_method", "used",
			"expires_at", "created_at",
		}).AddRow(
			codeID, codeHash, clientID, tenantID, userID, []byte(`["profile"]`),
			"https://app.example.com/cb", "", "", false,
			now.Add(5*time.Minute), now,
		)

		mock.ExpectQuery("SELECT (.+) FROM oauth2_authorization_codes WHERE code_hash =").
			WithArgs(codeHash).
			WillReturnRows(rows)

		code, err := repo.GetByCodeHash(context.Background(), codeHash)
		require.NoError(t, err)

		assert.Equal(t, codeID, code.ID)
		assert.Equal(t, codeHash, code.CodeHash)
		assert.Equal(t, []string{"profile"}, code.Scopes)
		assert.False(t, code.Used)
		assert.False(t, code.HasPKCE())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure_CodeNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLAuthorizationCodeRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM oauth2_authorization_codes WHERE code_hash =").
			WithArgs("missing-hash").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		code, err := repo.GetByCodeHash(context.Background(), "missing-hash")
		assert.Nil(t, code)
		assert.ErrorIs(t, err, oauthDomain.ErrAuthorizationCodeNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLAuthorizationCodeRepository_DeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAuthorizationCodeRepository(db)
	now := time.Now()

	mock.ExpectExec("DELETE FROM oauth2_authorization_codes").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

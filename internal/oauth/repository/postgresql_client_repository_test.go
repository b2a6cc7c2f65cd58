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

func TestPostgreSQLClientRepository_Get(t *testing.T) {
	t.Run("Success_GetClient", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLClientRepository(db)

		clientID := uuid.New()
		tenantID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "tenant_id", "secret_hash", "name", "description",
			"redirect_uris", "allowed_scopes", "is_active", "created_at", "updated_at",
		}).AddRow(
			clientID, tenantID, "$argon2id$hash", "Test App", "An app",
			[]byte(`["https://app.example.com/cb"]`), []byte(`["profile","email"]`),
			true, now, now,
		)

		mock.ExpectQuery("SELECT (.+) FROM oauth2_clients WHERE id =").
			WithArgs(clientID).
			WillReturnRows(rows)

		client, err := repo.Get(context.Background(), clientID)
		require.NoError(t, err)

		assert.Equal(t, clientID, client.ID)
		assert.Equal(t, tenantID, client.TenantID)
		require.NotNil(t, client.SecretHash)
		assert.Equal(t, "$argon2id$hash", *client.SecretHash)
		assert.Equal(t, []string{"https://app.example.com/cb"}, client.RedirectURIs)
		assert.Equal(t, []string{"profile", "email"}, client.AllowedScopes)
		assert.True(t, client.IsActive)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_PublicClientHasNilSecret", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLClientRepository(db)

		clientID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "tenant_id", "secret_hash", "name", "description",
			"redirect_uris", "allowed_scopes", "is_active", "created_at", "updated_at",
		}).AddRow(
			clientID, uuid.New(), nil, "Native App", "",
			[]byte(`["myapp://callback"]`), []byte(`["profile"]`),
			true, now, now,
		)

		mock.ExpectQuery("SELECT (.+) FROM oauth2_clients WHERE id =").
			WithArgs(clientID).
			WillReturnRows(rows)

		client, err := repo.Get(context.Background(), clientID)
		require.NoError(t, err)

		assert.Nil(t, client.SecretHash)
		assert.True(t, client.IsPublic())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure_ClientNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		repo := NewPostgreSQLClientRepository(db)

		clientID := uuid.New()

		mock.ExpectQuery("SELECT (.+) FROM oauth2_clients WHERE id =").
			WithArgs(clientID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		client, err := repo.Get(context.Background(), clientID)
		assert.Nil(t, client)
		assert.ErrorIs(t, err, oauthDomain.ErrClientNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLClientRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLClientRepository(db)

	hash := "$argon2id$hash"
	client := &oauthDomain.Client{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		SecretHash:    &hash,
		Name:          "Test App",
		RedirectURIs:  []string{"https://app.example.com/cb"},
		AllowedScopes: []string{"profile"},
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	mock.ExpectExec("INSERT INTO oauth2_clients").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), client))
	assert.NoError(t, mock.ExpectationsWereMet())
}

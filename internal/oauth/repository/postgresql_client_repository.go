// Package repository implements data persistence for OAuth2 entities.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16)
// types. Redirect URIs and scope sets are stored as JSON arrays. Single-use
// transitions (consume, mark used, rotate) are conditional updates whose
// affected-row count tells the caller whether it won the race.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/authflow/authflow/internal/database"
	apperrors "github.com/authflow/authflow/internal/errors"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

// PostgreSQLClientRepository implements Client persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// Create inserts a new Client into the PostgreSQL database.
func (p *PostgreSQLClientRepository) Create(ctx context.Context, client *oauthDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	redirectURIs, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client redirect uris")
	}
	allowedScopes, err := json.Marshal(client.AllowedScopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client allowed scopes")
	}

	query := `INSERT INTO oauth2_clients
			  (id, tenant_id, secret_hash, name, description, redirect_uris, allowed_scopes, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = querier.ExecContext(
		ctx,
		query,
		client.ID,
		client.TenantID,
		client.SecretHash,
		client.Name,
		client.Description,
		redirectURIs,
		allowedScopes,
		client.IsActive,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// Update modifies an existing Client in the PostgreSQL database.
func (p *PostgreSQLClientRepository) Update(ctx context.Context, client *oauthDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	redirectURIs, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client redirect uris")
	}
	allowedScopes, err := json.Marshal(client.AllowedScopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client allowed scopes")
	}

	query := `UPDATE oauth2_clients
			  SET secret_hash = $1,
				  name = $2,
				  description = $3,
				  redirect_uris = $4,
				  allowed_scopes = $5,
				  is_active = $6,
				  updated_at = $7
			  WHERE id = $8`

	_, err = querier.ExecContext(
		ctx,
		query,
		client.SecretHash,
		client.Name,
		client.Description,
		redirectURIs,
		allowedScopes,
		client.IsActive,
		client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}

	return nil
}

// Get retrieves a Client by ID from the PostgreSQL database.
// Returns ErrClientNotFound if the client doesn't exist.
func (p *PostgreSQLClientRepository) Get(
	ctx context.Context,
	clientID uuid.UUID,
) (*oauthDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, secret_hash, name, description, redirect_uris, allowed_scopes, is_active, created_at, updated_at
			  FROM oauth2_clients WHERE id = $1`

	var client oauthDomain.Client
	var redirectURIs, allowedScopes []byte

	err := querier.QueryRowContext(ctx, query, clientID).Scan(
		&client.ID,
		&client.TenantID,
		&client.SecretHash,
		&client.Name,
		&client.Description,
		&redirectURIs,
		&allowedScopes,
		&client.IsActive,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, oauthDomain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}

	if err := json.Unmarshal(redirectURIs, &client.RedirectURIs); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client redirect uris")
	}
	if err := json.Unmarshal(allowedScopes, &client.AllowedScopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client allowed scopes")
	}

	return &client, nil
}

// NewPostgreSQLClientRepository creates a new PostgreSQL Client repository.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}

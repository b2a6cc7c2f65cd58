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

// MySQLClientRepository implements Client persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLClientRepository struct {
	db *sql.DB
}

// Create inserts a new Client into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLClientRepository) Create(ctx context.Context, client *oauthDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	redirectURIs, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client redirect uris")
	}
	allowedScopes, err := json.Marshal(client.AllowedScopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client allowed scopes")
	}
	id, err := marshalUUID(client.ID)
	if err != nil {
		return err
	}
	tenantID, err := marshalUUID(client.TenantID)
	if err != nil {
		return err
	}

	query := `INSERT INTO oauth2_clients
			  (id, tenant_id, secret_hash, name, description, redirect_uris, allowed_scopes, is_active, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		tenantID,
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

// Update modifies an existing Client in the MySQL database.
func (m *MySQLClientRepository) Update(ctx context.Context, client *oauthDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	redirectURIs, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client redirect uris")
	}
	allowedScopes, err := json.Marshal(client.AllowedScopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client allowed scopes")
	}
	id, err := marshalUUID(client.ID)
	if err != nil {
		return err
	}

	query := `UPDATE oauth2_clients
			  SET secret_hash = ?,
				  name = ?,
				  description = ?,
				  redirect_uris = ?,
				  allowed_scopes = ?,
				  is_active = ?,
				  updated_at = ?
			  WHERE id = ?`

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
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}

	return nil
}

// Get retrieves a Client by ID from the MySQL database.
// Returns ErrClientNotFound if the client doesn't exist.
func (m *MySQLClientRepository) Get(
	ctx context.Context,
	clientID uuid.UUID,
) (*oauthDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, tenant_id, secret_hash, name, description, redirect_uris, allowed_scopes, is_active, created_at, updated_at
			  FROM oauth2_clients WHERE id = ?`

	id, err := marshalUUID(clientID)
	if err != nil {
		return nil, err
	}

	var client oauthDomain.Client
	var idBytes, tenantIDBytes []byte
	var redirectURIs, allowedScopes []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&tenantIDBytes,
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

	if err := client.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client id")
	}
	if err := client.TenantID.UnmarshalBinary(tenantIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client tenant id")
	}
	if err := json.Unmarshal(redirectURIs, &client.RedirectURIs); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client redirect uris")
	}
	if err := json.Unmarshal(allowedScopes, &client.AllowedScopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client allowed scopes")
	}

	return &client, nil
}

// NewMySQLClientRepository creates a new MySQL Client repository.
func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}

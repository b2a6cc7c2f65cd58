package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/authflow/authflow/internal/database"
	apperrors "github.com/authflow/authflow/internal/errors"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

// MySQLAccessTokenRepository implements AccessToken persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAccessTokenRepository struct {
	db *sql.DB
}

// Create inserts a new AccessToken into the MySQL database.
func (m *MySQLAccessTokenRepository) Create(
	ctx context.Context,
	token *oauthDomain.AccessToken,
) error {
	querier := database.GetTx(ctx, m.db)

	scopes, err := json.Marshal(token.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access token scopes")
	}
	id, err := marshalUUID(token.ID)
	if err != nil {
		return err
	}
	clientID, err := marshalUUID(token.ClientID)
	if err != nil {
		return err
	}
	tenantID, err := marshalUUID(token.TenantID)
	if err != nil {
		return err
	}
	userID, err := marshalUUID(token.UserID)
	if err != nil {
		return err
	}
	familyID, err := marshalUUID(token.FamilyID)
	if err != nil {
		return err
	}

	query := `INSERT INTO oauth2_access_tokens
			  (id, token_hash, client_id, tenant_id, user_id, scopes, family_id, revoked_at, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		clientID,
		tenantID,
		userID,
		scopes,
		familyID,
		token.RevokedAt,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access token")
	}
	return nil
}

// GetByTokenHash retrieves an AccessToken by its hashed value.
// Returns ErrAccessTokenNotFound if the token doesn't exist.
func (m *MySQLAccessTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*oauthDomain.AccessToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, client_id, tenant_id, user_id, scopes, family_id, revoked_at, expires_at, created_at
			  FROM oauth2_access_tokens WHERE token_hash = ?`

	var token oauthDomain.AccessToken
	var idBytes, clientIDBytes, tenantIDBytes, userIDBytes, familyIDBytes []byte
	var scopes []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&idBytes,
		&token.TokenHash,
		&clientIDBytes,
		&tenantIDBytes,
		&userIDBytes,
		&scopes,
		&familyIDBytes,
		&token.RevokedAt,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, oauthDomain.ErrAccessTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get access token")
	}

	if err := token.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal access token id")
	}
	if err := token.ClientID.UnmarshalBinary(clientIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal access token client id")
	}
	if err := token.TenantID.UnmarshalBinary(tenantIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal access token tenant id")
	}
	if err := token.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal access token user id")
	}
	if err := token.FamilyID.UnmarshalBinary(familyIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal access token family id")
	}
	if err := json.Unmarshal(scopes, &token.Scopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal access token scopes")
	}

	return &token, nil
}

// Revoke marks the access token revoked.
func (m *MySQLAccessTokenRepository) Revoke(
	ctx context.Context,
	tokenID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := marshalUUID(tokenID)
	if err != nil {
		return err
	}

	query := `UPDATE oauth2_access_tokens
			  SET revoked_at = ?
			  WHERE id = ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, now, id); err != nil {
		return apperrors.Wrap(err, "failed to revoke access token")
	}
	return nil
}

// RevokeFamily revokes every access token descended from the same grant.
func (m *MySQLAccessTokenRepository) RevokeFamily(
	ctx context.Context,
	familyID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	family, err := marshalUUID(familyID)
	if err != nil {
		return err
	}

	query := `UPDATE oauth2_access_tokens
			  SET revoked_at = ?
			  WHERE family_id = ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, now, family); err != nil {
		return apperrors.Wrap(err, "failed to revoke access token family")
	}
	return nil
}

// DeleteExpired removes access tokens whose expiry has passed.
// Returns the number of deleted rows.
func (m *MySQLAccessTokenRepository) DeleteExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM oauth2_access_tokens WHERE expires_at <= ?`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired access tokens")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}

	return affected, nil
}

// NewMySQLAccessTokenRepository creates a new MySQL AccessToken repository.
func NewMySQLAccessTokenRepository(db *sql.DB) *MySQLAccessTokenRepository {
	return &MySQLAccessTokenRepository{db: db}
}

// MySQLRefreshTokenRepository implements RefreshToken persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLRefreshTokenRepository struct {
	db *sql.DB
}

// Create inserts a new RefreshToken into the MySQL database.
func (m *MySQLRefreshTokenRepository) Create(
	ctx context.Context,
	token *oauthDomain.RefreshToken,
) error {
	querier := database.GetTx(ctx, m.db)

	scopes, err := json.Marshal(token.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal refresh token scopes")
	}
	id, err := marshalUUID(token.ID)
	if err != nil {
		return err
	}
	clientID, err := marshalUUID(token.ClientID)
	if err != nil {
		return err
	}
	tenantID, err := marshalUUID(token.TenantID)
	if err != nil {
		return err
	}
	userID, err := marshalUUID(token.UserID)
	if err != nil {
		return err
	}
	familyID, err := marshalUUID(token.FamilyID)
	if err != nil {
		return err
	}
	replacedBy, err := marshalUUIDPtr(token.ReplacedBy)
	if err != nil {
		return err
	}

	query := `INSERT INTO oauth2_refresh_tokens
			  (id, token_hash, client_id, tenant_id, user_id, scopes, family_id, rotated_at, replaced_by, revoked_at, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		clientID,
		tenantID,
		userID,
		scopes,
		familyID,
		token.RotatedAt,
		replacedBy,
		token.RevokedAt,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create refresh token")
	}
	return nil
}

// GetByTokenHash retrieves a RefreshToken by its hashed value.
// Returns ErrRefreshTokenNotFound if the token doesn't exist.
func (m *MySQLRefreshTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*oauthDomain.RefreshToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, client_id, tenant_id, user_id, scopes, family_id, rotated_at, replaced_by, revoked_at, expires_at, created_at
			  FROM oauth2_refresh_tokens WHERE token_hash = ?`

	var token oauthDomain.RefreshToken
	var idBytes, clientIDBytes, tenantIDBytes, userIDBytes, familyIDBytes, replacedByBytes []byte
	var scopes []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&idBytes,
		&token.TokenHash,
		&clientIDBytes,
		&tenantIDBytes,
		&userIDBytes,
		&scopes,
		&familyIDBytes,
		&token.RotatedAt,
		&replacedByBytes,
		&token.RevokedAt,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, oauthDomain.ErrRefreshTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get refresh token")
	}

	if err := token.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal refresh token id")
	}
	if err := token.ClientID.UnmarshalBinary(clientIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal refresh token client id")
	}
	if err := token.TenantID.UnmarshalBinary(tenantIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal refresh token tenant id")
	}
	if err := token.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal refresh token user id")
	}
	if err := token.FamilyID.UnmarshalBinary(familyIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal refresh token family id")
	}
	token.ReplacedBy, err = unmarshalUUIDPtr(replacedByBytes)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(scopes, &token.Scopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal refresh token scopes")
	}

	return &token, nil
}

// Rotate marks the token rotated and links its replacement. The update is
// conditional on the token not being rotated yet.
func (m *MySQLRefreshTokenRepository) Rotate(
	ctx context.Context,
	tokenID uuid.UUID,
	replacedBy uuid.UUID,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := marshalUUID(tokenID)
	if err != nil {
		return false, err
	}
	replacement, err := marshalUUID(replacedBy)
	if err != nil {
		return false, err
	}

	query := `UPDATE oauth2_refresh_tokens
			  SET rotated_at = ?, replaced_by = ?
			  WHERE id = ? AND rotated_at IS NULL`

	result, err := querier.ExecContext(ctx, query, now, replacement, id)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to rotate refresh token")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get affected rows")
	}

	return affected == 1, nil
}

// Revoke marks the refresh token revoked.
func (m *MySQLRefreshTokenRepository) Revoke(
	ctx context.Context,
	tokenID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := marshalUUID(tokenID)
	if err != nil {
		return err
	}

	query := `UPDATE oauth2_refresh_tokens
			  SET revoked_at = ?
			  WHERE id = ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, now, id); err != nil {
		return apperrors.Wrap(err, "failed to revoke refresh token")
	}
	return nil
}

// RevokeFamily revokes every refresh token descended from the same grant.
func (m *MySQLRefreshTokenRepository) RevokeFamily(
	ctx context.Context,
	familyID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	family, err := marshalUUID(familyID)
	if err != nil {
		return err
	}

	query := `UPDATE oauth2_refresh_tokens
			  SET revoked_at = ?
			  WHERE family_id = ? AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, now, family); err != nil {
		return apperrors.Wrap(err, "failed to revoke refresh token family")
	}
	return nil
}

// DeleteExpired removes refresh tokens whose expiry has passed.
// Returns the number of deleted rows.
func (m *MySQLRefreshTokenRepository) DeleteExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM oauth2_refresh_tokens WHERE expires_at <= ?`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired refresh tokens")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}

	return affected, nil
}

// NewMySQLRefreshTokenRepository creates a new MySQL RefreshToken repository.
func NewMySQLRefreshTokenRepository(db *sql.DB) *MySQLRefreshTokenRepository {
	return &MySQLRefreshTokenRepository{db: db}
}

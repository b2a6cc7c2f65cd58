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

// PostgreSQLAccessTokenRepository implements AccessToken persistence for
// PostgreSQL. Uses native UUID types with transaction support via
// database.GetTx().
type PostgreSQLAccessTokenRepository struct {
	db *sql.DB
}

// Create inserts a new AccessToken into the PostgreSQL database.
func (p *PostgreSQLAccessTokenRepository) Create(
	ctx context.Context,
	token *oauthDomain.AccessToken,
) error {
	querier := database.GetTx(ctx, p.db)

	scopes, err := json.Marshal(token.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access token scopes")
	}

	query := `INSERT INTO oauth2_access_tokens
			  (id, token_hash, client_id, tenant_id, user_id, scopes, family_id, revoked_at, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.ClientID,
		token.TenantID,
		token.UserID,
		scopes,
		token.FamilyID,
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
func (p *PostgreSQLAccessTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*oauthDomain.AccessToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, client_id, tenant_id, user_id, scopes, family_id, revoked_at, expires_at, created_at
			  FROM oauth2_access_tokens WHERE token_hash = $1`

	var token oauthDomain.AccessToken
	var scopes []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.TokenHash,
		&token.ClientID,
		&token.TenantID,
		&token.UserID,
		&scopes,
		&token.FamilyID,
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

	if err := json.Unmarshal(scopes, &token.Scopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal access token scopes")
	}

	return &token, nil
}

// Revoke marks the access token revoked. Idempotent: revoking an already
// revoked token keeps the original revocation time.
func (p *PostgreSQLAccessTokenRepository) Revoke(
	ctx context.Context,
	tokenID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth2_access_tokens
			  SET revoked_at = $1
			  WHERE id = $2 AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, now, tokenID); err != nil {
		return apperrors.Wrap(err, "failed to revoke access token")
	}
	return nil
}

// RevokeFamily revokes every access token descended from the same grant.
func (p *PostgreSQLAccessTokenRepository) RevokeFamily(
	ctx context.Context,
	familyID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth2_access_tokens
			  SET revoked_at = $1
			  WHERE family_id = $2 AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, now, familyID); err != nil {
		return apperrors.Wrap(err, "failed to revoke access token family")
	}
	return nil
}

// DeleteExpired removes access tokens whose expiry has passed.
// Returns the number of deleted rows.
func (p *PostgreSQLAccessTokenRepository) DeleteExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM oauth2_access_tokens WHERE expires_at <= $1`

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

// NewPostgreSQLAccessTokenRepository creates a new PostgreSQL AccessToken repository.
func NewPostgreSQLAccessTokenRepository(db *sql.DB) *PostgreSQLAccessTokenRepository {
	return &PostgreSQLAccessTokenRepository{db: db}
}

// PostgreSQLRefreshTokenRepository implements RefreshToken persistence for
// PostgreSQL. Uses native UUID types with transaction support via
// database.GetTx().
type PostgreSQLRefreshTokenRepository struct {
	db *sql.DB
}

// Create inserts a new RefreshToken into the PostgreSQL database.
func (p *PostgreSQLRefreshTokenRepository) Create(
	ctx context.Context,
	token *oauthDomain.RefreshToken,
) error {
	querier := database.GetTx(ctx, p.db)

	scopes, err := json.Marshal(token.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal refresh token scopes")
	}

	query := `INSERT INTO oauth2_refresh_tokens
			  (id, token_hash, client_id, tenant_id, user_id, scopes, family_id, rotated_at, replaced_by, revoked_at, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.TokenHash,
		token.ClientID,
		token.TenantID,
		token.UserID,
		scopes,
		token.FamilyID,
		token.RotatedAt,
		token.ReplacedBy,
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
func (p *PostgreSQLRefreshTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*oauthDomain.RefreshToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, client_id, tenant_id, user_id, scopes, family_id, rotated_at, replaced_by, revoked_at, expires_at, created_at
			  FROM oauth2_refresh_tokens WHERE token_hash = $1`

	var token oauthDomain.RefreshToken
	var scopes []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.TokenHash,
		&token.ClientID,
		&token.TenantID,
		&token.UserID,
		&scopes,
		&token.FamilyID,
		&token.RotatedAt,
		&token.ReplacedBy,
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

	if err := json.Unmarshal(scopes, &token.Scopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal refresh token scopes")
	}

	return &token, nil
}

// Rotate marks the token rotated and links its replacement. The update is
// conditional on the token not being rotated yet; concurrent rotations of
// the same token produce exactly one winner.
func (p *PostgreSQLRefreshTokenRepository) Rotate(
	ctx context.Context,
	tokenID uuid.UUID,
	replacedBy uuid.UUID,
	now time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth2_refresh_tokens
			  SET rotated_at = $1, replaced_by = $2
			  WHERE id = $3 AND rotated_at IS NULL`

	result, err := querier.ExecContext(ctx, query, now, replacedBy, tokenID)
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
func (p *PostgreSQLRefreshTokenRepository) Revoke(
	ctx context.Context,
	tokenID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth2_refresh_tokens
			  SET revoked_at = $1
			  WHERE id = $2 AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, now, tokenID); err != nil {
		return apperrors.Wrap(err, "failed to revoke refresh token")
	}
	return nil
}

// RevokeFamily revokes every refresh token descended from the same grant.
func (p *PostgreSQLRefreshTokenRepository) RevokeFamily(
	ctx context.Context,
	familyID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth2_refresh_tokens
			  SET revoked_at = $1
			  WHERE family_id = $2 AND revoked_at IS NULL`

	if _, err := querier.ExecContext(ctx, query, now, familyID); err != nil {
		return apperrors.Wrap(err, "failed to revoke refresh token family")
	}
	return nil
}

// DeleteExpired removes refresh tokens whose expiry has passed.
// Returns the number of deleted rows.
func (p *PostgreSQLRefreshTokenRepository) DeleteExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM oauth2_refresh_tokens WHERE expires_at <= $1`

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

// NewPostgreSQLRefreshTokenRepository creates a new PostgreSQL RefreshToken repository.
func NewPostgreSQLRefreshTokenRepository(db *sql.DB) *PostgreSQLRefreshTokenRepository {
	return &PostgreSQLRefreshTokenRepository{db: db}
}

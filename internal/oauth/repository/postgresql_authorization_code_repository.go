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

// PostgreSQLAuthorizationCodeRepository implements AuthorizationCode
// persistence for PostgreSQL. Uses native UUID types with transaction
// support via database.GetTx().
type PostgreSQLAuthorizationCodeRepository struct {
	db *sql.DB
}

// Create inserts a new AuthorizationCode into the PostgreSQL database.
func (p *PostgreSQLAuthorizationCodeRepository) Create(
	ctx context.Context,
	code *oauthDomain.AuthorizationCode,
) error {
	querier := database.GetTx(ctx, p.db)

	scopes, err := json.Marshal(code.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal authorization code scopes")
	}

	query := `INSERT INTO oauth2_authorization_codes
			  (id, code_hash, client_id, tenant_id, user_id, scopes, redirect_uri, code_challenge, code_challenge_method, used, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = querier.ExecContext(
		ctx,
		query,
		code.ID,
		code.CodeHash,
		code.ClientID,
		code.TenantID,
		code.UserID,
		scopes,
		code.RedirectURI,
		code.CodeChallenge,
		string(code.CodeChallengeMethod),
		code.Used,
		code.ExpiresAt,
		code.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create authorization code")
	}
	return nil
}

// GetByCodeHash retrieves an AuthorizationCode by its hashed value.
// Returns ErrAuthorizationCodeNotFound if the code doesn't exist.
func (p *PostgreSQLAuthorizationCodeRepository) GetByCodeHash(
	ctx context.Context,
	codeHash string,
) (*oauthDomain.AuthorizationCode, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, code_hash, client_id, tenant_id, user_id, scopes, redirect_uri, code_challenge, code_challenge_method, used, expires_at, created_at
			  FROM oauth2_authorization_codes WHERE code_hash = $1`

	var code oauthDomain.AuthorizationCode
	var scopes []byte
	var method string

	err := querier.QueryRowContext(ctx, query, codeHash).Scan(
		&code.ID,
		&code.CodeHash,
		&code.ClientID,
		&code.TenantID,
		&code.UserID,
		&scopes,
		&code.RedirectURI,
		&code.CodeChallenge,
		&method,
		&code.Used,
		&code.ExpiresAt,
		&code.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, oauthDomain.ErrAuthorizationCodeNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get authorization code")
	}

	if err := json.Unmarshal(scopes, &code.Scopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization code scopes")
	}
	code.CodeChallengeMethod = oauthDomain.CodeChallengeMethod(method)

	return &code, nil
}

// MarkUsed flips the used flag exactly once. Returns false when the code
// was already used, so at most one exchange can win even under concurrent
// attempts.
func (p *PostgreSQLAuthorizationCodeRepository) MarkUsed(
	ctx context.Context,
	codeID uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth2_authorization_codes
			  SET used = true
			  WHERE id = $1 AND used = false`

	result, err := querier.ExecContext(ctx, query, codeID)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to mark authorization code used")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get affected rows")
	}

	return affected == 1, nil
}

// DeleteExpired removes authorization codes whose expiry has passed.
// Returns the number of deleted rows.
func (p *PostgreSQLAuthorizationCodeRepository) DeleteExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM oauth2_authorization_codes WHERE expires_at <= $1`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired authorization codes")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}

	return affected, nil
}

// NewPostgreSQLAuthorizationCodeRepository creates a new PostgreSQL
// AuthorizationCode repository.
func NewPostgreSQLAuthorizationCodeRepository(db *sql.DB) *PostgreSQLAuthorizationCodeRepository {
	return &PostgreSQLAuthorizationCodeRepository{db: db}
}

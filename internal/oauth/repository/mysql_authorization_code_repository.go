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

// MySQLAuthorizationCodeRepository implements AuthorizationCode persistence
// for MySQL. Uses BINARY(16) for UUID storage with transaction support via
// database.GetTx().
type MySQLAuthorizationCodeRepository struct {
	db *sql.DB
}

// Create inserts a new AuthorizationCode into the MySQL database.
func (m *MySQLAuthorizationCodeRepository) Create(
	ctx context.Context,
	code *oauthDomain.AuthorizationCode,
) error {
	querier := database.GetTx(ctx, m.db)

	scopes, err := json.Marshal(code.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal authorization code scopes")
	}
	id, err := marshalUUID(code.ID)
	if err != nil {
		return err
	}
	clientID, err := marshalUUID(code.ClientID)
	if err != nil {
		return err
	}
	tenantID, err := marshalUUID(code.TenantID)
	if err != nil {
		return err
	}
	userID, err := marshalUUID(code.UserID)
	if err != nil {
		return err
	}

	query := `INSERT INTO oauth2_authorization_codes
			  (id, code_hash, client_id, tenant_id, user_id, scopes, redirect_uri, code_challenge, code_challenge_method, used, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		code.CodeHash,
		clientID,
		tenantID,
		userID,
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
func (m *MySQLAuthorizationCodeRepository) GetByCodeHash(
	ctx context.Context,
	codeHash string,
) (*oauthDomain.AuthorizationCode, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, code_hash, client_id, tenant_id, user_id, scopes, redirect_uri, code_challenge, code_challenge_method, used, expires_at, created_at
			  FROM oauth2_authorization_codes WHERE code_hash = ?`

	var code oauthDomain.AuthorizationCode
	var idBytes, clientIDBytes, tenantIDBytes, userIDBytes []byte
	var scopes []byte
	var method string

	err := querier.QueryRowContext(ctx, query, codeHash).Scan(
		&idBytes,
		&code.CodeHash,
		&clientIDBytes,
		&tenantIDBytes,
		&userIDBytes,
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

	if err := code.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization code id")
	}
	if err := code.ClientID.UnmarshalBinary(clientIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization code client id")
	}
	if err := code.TenantID.UnmarshalBinary(tenantIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization code tenant id")
	}
	if err := code.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization code user id")
	}
	if err := json.Unmarshal(scopes, &code.Scopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization code scopes")
	}
	code.CodeChallengeMethod = oauthDomain.CodeChallengeMethod(method)

	return &code, nil
}

// MarkUsed flips the used flag exactly once. Returns false when the code
// was already used.
func (m *MySQLAuthorizationCodeRepository) MarkUsed(
	ctx context.Context,
	codeID uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := marshalUUID(codeID)
	if err != nil {
		return false, err
	}

	query := `UPDATE oauth2_authorization_codes
			  SET used = true
			  WHERE id = ? AND used = false`

	result, err := querier.ExecContext(ctx, query, id)
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
func (m *MySQLAuthorizationCodeRepository) DeleteExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM oauth2_authorization_codes WHERE expires_at <= ?`

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

// NewMySQLAuthorizationCodeRepository creates a new MySQL AuthorizationCode
// repository.
func NewMySQLAuthorizationCodeRepository(db *sql.DB) *MySQLAuthorizationCodeRepository {
	return &MySQLAuthorizationCodeRepository{db: db}
}

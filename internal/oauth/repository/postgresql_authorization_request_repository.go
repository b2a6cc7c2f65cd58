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

// PostgreSQLAuthorizationRequestRepository implements AuthorizationRequest
// persistence for PostgreSQL. Uses native UUID types with transaction support
// via database.GetTx().
type PostgreSQLAuthorizationRequestRepository struct {
	db *sql.DB
}

// Create inserts a new AuthorizationRequest into the PostgreSQL database.
func (p *PostgreSQLAuthorizationRequestRepository) Create(
	ctx context.Context,
	request *oauthDomain.AuthorizationRequest,
) error {
	querier := database.GetTx(ctx, p.db)

	scopes, err := json.Marshal(request.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal authorization request scopes")
	}

	query := `INSERT INTO oauth2_authorization_requests
			  (id, client_id, tenant_id, scopes, redirect_uri, state, code_challenge, code_challenge_method, user_id, consumed, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = querier.ExecContext(
		ctx,
		query,
		request.ID,
		request.ClientID,
		request.TenantID,
		scopes,
		request.RedirectURI,
		request.State,
		request.CodeChallenge,
		string(request.CodeChallengeMethod),
		request.UserID,
		request.Consumed,
		request.ExpiresAt,
		request.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create authorization request")
	}
	return nil
}

// Get retrieves an AuthorizationRequest by ID from the PostgreSQL database.
// Returns ErrAuthorizationRequestNotFound if the request doesn't exist.
func (p *PostgreSQLAuthorizationRequestRepository) Get(
	ctx context.Context,
	requestID uuid.UUID,
) (*oauthDomain.AuthorizationRequest, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, client_id, tenant_id, scopes, redirect_uri, state, code_challenge, code_challenge_method, user_id, consumed, expires_at, created_at
			  FROM oauth2_authorization_requests WHERE id = $1`

	var request oauthDomain.AuthorizationRequest
	var scopes []byte
	var method string

	err := querier.QueryRowContext(ctx, query, requestID).Scan(
		&request.ID,
		&request.ClientID,
		&request.TenantID,
		&scopes,
		&request.RedirectURI,
		&request.State,
		&request.CodeChallenge,
		&method,
		&request.UserID,
		&request.Consumed,
		&request.ExpiresAt,
		&request.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, oauthDomain.ErrAuthorizationRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get authorization request")
	}

	if err := json.Unmarshal(scopes, &request.Scopes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization request scopes")
	}
	request.CodeChallengeMethod = oauthDomain.CodeChallengeMethod(method)

	return &request, nil
}

// AttachUser binds the authenticated user to the request. The update is
// conditional on the request being unconsumed and unexpired; zero affected
// rows is reported as ErrAuthorizationRequestNotFound.
func (p *PostgreSQLAuthorizationRequestRepository) AttachUser(
	ctx context.Context,
	requestID uuid.UUID,
	userID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth2_authorization_requests
			  SET user_id = $1
			  WHERE id = $2 AND consumed = false AND expires_at > $3`

	result, err := querier.ExecContext(ctx, query, userID, requestID, now)
	if err != nil {
		return apperrors.Wrap(err, "failed to attach user to authorization request")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return oauthDomain.ErrAuthorizationRequestNotFound
	}

	return nil
}

// Consume flips the consumed flag exactly once. Zero affected rows means
// another decision already consumed the request, reported as false with no
// error so the caller can map it to a protocol error.
func (p *PostgreSQLAuthorizationRequestRepository) Consume(
	ctx context.Context,
	requestID uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth2_authorization_requests
			  SET consumed = true
			  WHERE id = $1 AND consumed = false`

	result, err := querier.ExecContext(ctx, query, requestID)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to consume authorization request")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get affected rows")
	}

	return affected == 1, nil
}

// DeleteExpired removes authorization requests whose expiry has passed.
// Returns the number of deleted rows.
func (p *PostgreSQLAuthorizationRequestRepository) DeleteExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM oauth2_authorization_requests WHERE expires_at <= $1`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired authorization requests")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}

	return affected, nil
}

// NewPostgreSQLAuthorizationRequestRepository creates a new PostgreSQL
// AuthorizationRequest repository.
func NewPostgreSQLAuthorizationRequestRepository(db *sql.DB) *PostgreSQLAuthorizationRequestRepository {
	return &PostgreSQLAuthorizationRequestRepository{db: db}
}

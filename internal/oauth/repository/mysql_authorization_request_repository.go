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

// MySQLAuthorizationRequestRepository implements AuthorizationRequest
// persistence for MySQL. Uses BINARY(16) for UUID storage with transaction
// support via database.GetTx().
type MySQLAuthorizationRequestRepository struct {
	db *sql.DB
}

// Create inserts a new AuthorizationRequest into the MySQL database.
func (m *MySQLAuthorizationRequestRepository) Create(
	ctx context.Context,
	request *oauthDomain.AuthorizationRequest,
) error {
	querier := database.GetTx(ctx, m.db)

	scopes, err := json.Marshal(request.Scopes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal authorization request scopes")
	}
	id, err := marshalUUID(request.ID)
	if err != nil {
		return err
	}
	clientID, err := marshalUUID(request.ClientID)
	if err != nil {
		return err
	}
	tenantID, err := marshalUUID(request.TenantID)
	if err != nil {
		return err
	}
	userID, err := marshalUUIDPtr(request.UserID)
	if err != nil {
		return err
	}

	query := `INSERT INTO oauth2_authorization_requests
			  (id, client_id, tenant_id, scopes, redirect_uri, state, code_challenge, code_challenge_method, user_id, consumed, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		clientID,
		tenantID,
		scopes,
		request.RedirectURI,
		request.State,
		request.CodeChallenge,
		string(request.CodeChallengeMethod),
		userID,
		request.Consumed,
		request.ExpiresAt,
		request.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create authorization request")
	}
	return nil
}

// Get retrieves an AuthorizationRequest by ID from the MySQL database.
// Returns ErrAuthorizationRequestNotFound if the request doesn't exist.
func (m *MySQLAuthorizationRequestRepository) Get(
	ctx context.Context,
	requestID uuid.UUID,
) (*oauthDomain.AuthorizationRequest, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, client_id, tenant_id, scopes, redirect_uri, state, code_challenge, code_challenge_method, user_id, consumed, expires_at, created_at
			  FROM oauth2_authorization_requests WHERE id = ?`

	id, err := marshalUUID(requestID)
	if err != nil {
		return nil, err
	}

	var request oauthDomain.AuthorizationRequest
	var idBytes, clientIDBytes, tenantIDBytes, userIDBytes []byte
	var scopes []byte
	var method string

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&clientIDBytes,
		&tenantIDBytes,
		&scopes,
		&request.RedirectURI,
		&request.State,
		&request.CodeChallenge,
		&method,
		&userIDBytes,
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

	if err := request.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization request id")
	}
	if err := request.ClientID.UnmarshalBinary(clientIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization request client id")
	}
	if err := request.TenantID.UnmarshalBinary(tenantIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal authorization request tenant id")
	}
	request.UserID, err = unmarshalUUIDPtr(userIDBytes)
	if err != nil {
		return nil, err
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
func (m *MySQLAuthorizationRequestRepository) AttachUser(
	ctx context.Context,
	requestID uuid.UUID,
	userID uuid.UUID,
	now time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := marshalUUID(requestID)
	if err != nil {
		return err
	}
	uid, err := marshalUUID(userID)
	if err != nil {
		return err
	}

	query := `UPDATE oauth2_authorization_requests
			  SET user_id = ?
			  WHERE id = ? AND consumed = false AND expires_at > ?`

	result, err := querier.ExecContext(ctx, query, uid, id, now)
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
// another decision already consumed the request.
func (m *MySQLAuthorizationRequestRepository) Consume(
	ctx context.Context,
	requestID uuid.UUID,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := marshalUUID(requestID)
	if err != nil {
		return false, err
	}

	query := `UPDATE oauth2_authorization_requests
			  SET consumed = true
			  WHERE id = ? AND consumed = false`

	result, err := querier.ExecContext(ctx, query, id)
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
func (m *MySQLAuthorizationRequestRepository) DeleteExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM oauth2_authorization_requests WHERE expires_at <= ?`

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

// NewMySQLAuthorizationRequestRepository creates a new MySQL
// AuthorizationRequest repository.
func NewMySQLAuthorizationRequestRepository(db *sql.DB) *MySQLAuthorizationRequestRepository {
	return &MySQLAuthorizationRequestRepository{db: db}
}

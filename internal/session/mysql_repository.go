package session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/authflow/authflow/internal/database"
	apperrors "github.com/authflow/authflow/internal/errors"
)

// MySQLRepository implements Session persistence for MySQL.
// UUID columns are stored as BINARY(16).
type MySQLRepository struct {
	db *sql.DB
}

// GetByTokenHash retrieves a Session by its hashed token value.
func (m *MySQLRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, tenant_id, token_hash, expires_at, created_at
			  FROM sessions
			  WHERE token_hash = ?`

	session := &Session{}
	var idBytes, userIDBytes, tenantIDBytes []byte
	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&idBytes,
		&userIDBytes,
		&tenantIDBytes,
		&session.TokenHash,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get session by token hash")
	}

	if err := session.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal session id")
	}
	if err := session.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal session user id")
	}
	if err := session.TenantID.UnmarshalBinary(tenantIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal session tenant id")
	}
	return session, nil
}

// NewMySQLRepository creates a new MySQL session repository.
func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

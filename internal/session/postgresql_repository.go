package session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/authflow/authflow/internal/database"
	apperrors "github.com/authflow/authflow/internal/errors"
)

// PostgreSQLRepository implements Session persistence for PostgreSQL.
type PostgreSQLRepository struct {
	db *sql.DB
}

// GetByTokenHash retrieves a Session by its hashed token value.
func (p *PostgreSQLRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, tenant_id, token_hash, expires_at, created_at
			  FROM sessions
			  WHERE token_hash = $1`

	session := &Session{}
	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TenantID,
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
	return session, nil
}

// NewPostgreSQLRepository creates a new PostgreSQL session repository.
func NewPostgreSQLRepository(db *sql.DB) *PostgreSQLRepository {
	return &PostgreSQLRepository{db: db}
}

package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/authflow/authflow/internal/database"
	apperrors "github.com/authflow/authflow/internal/errors"
)

// PostgreSQLRepository implements User lookup for PostgreSQL.
type PostgreSQLRepository struct {
	db *sql.DB
}

// Get retrieves a User by ID.
func (p *PostgreSQLRepository) Get(ctx context.Context, userID uuid.UUID) (*User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, email, email_verified, name, created_at, updated_at
			  FROM users
			  WHERE id = $1`

	user := &User{}
	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.TenantID,
		&user.Email,
		&user.EmailVerified,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}
	return user, nil
}

// NewPostgreSQLRepository creates a new PostgreSQL user repository.
func NewPostgreSQLRepository(db *sql.DB) *PostgreSQLRepository {
	return &PostgreSQLRepository{db: db}
}

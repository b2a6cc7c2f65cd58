package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/authflow/authflow/internal/database"
	apperrors "github.com/authflow/authflow/internal/errors"
)

// MySQLRepository implements User lookup for MySQL.
// UUID columns are stored as BINARY(16).
type MySQLRepository struct {
	db *sql.DB
}

// Get retrieves a User by ID.
func (m *MySQLRepository) Get(ctx context.Context, userID uuid.UUID) (*User, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT id, tenant_id, email, email_verified, name, created_at, updated_at
			  FROM users
			  WHERE id = ?`

	user := &User{}
	var userIDBytes, tenantIDBytes []byte
	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&userIDBytes,
		&tenantIDBytes,
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

	if err := user.ID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if err := user.TenantID.UnmarshalBinary(tenantIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user tenant id")
	}
	return user, nil
}

// NewMySQLRepository creates a new MySQL user repository.
func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// Package user is the read-only user directory backing userinfo claims.
//
// User records are owned by the external identity layer; the authorization
// server only reads them to render consent context and serve the userinfo
// endpoint.
package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/authflow/authflow/internal/errors"
)

// ErrUserNotFound is returned when a user does not exist.
var ErrUserNotFound = apperrors.Wrap(apperrors.ErrNotFound, "user not found")

// User is a directory entry in a tenant.
type User struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	Email         string
	EmailVerified bool
	Name          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Repository defines read-only persistence operations for users.
type Repository interface {
	// Get retrieves a user by ID. Returns ErrUserNotFound if not found.
	Get(ctx context.Context, userID uuid.UUID) (*User, error)
}

// Package session consumes authenticated browser sessions.
//
// The authorization server never signs users in itself; an external identity
// layer creates session records, and this package only resolves a presented
// session token into a user and tenant. Session tokens are opaque values
// stored SHA-256 hashed, like every other credential in the system.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/authflow/authflow/internal/errors"
)

// ErrSessionNotFound is returned when a session does not exist.
var ErrSessionNotFound = apperrors.Wrap(apperrors.ErrNotFound, "session not found")

// Session is an authenticated browser session created by the external
// identity layer.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TenantID  uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session has expired at the given time.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Repository defines read-only persistence operations for sessions.
type Repository interface {
	// GetByTokenHash retrieves a session by its hashed token value.
	// Returns ErrSessionNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
}

// Authenticator resolves session tokens into sessions.
type Authenticator interface {
	// Authenticate hashes the presented token and returns the live session
	// it identifies. Every failure is ErrUnauthorized.
	Authenticate(ctx context.Context, sessionToken string) (*Session, error)
}

type authenticator struct {
	repository Repository
}

// Authenticate hashes the presented token and looks up the session. Missing,
// expired, and storage-failed lookups are all ErrUnauthorized: callers never
// learn why a session was rejected.
func (a *authenticator) Authenticate(ctx context.Context, sessionToken string) (*Session, error) {
	if sessionToken == "" {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "missing session token")
	}

	hash := sha256.Sum256([]byte(sessionToken))
	tokenHash := hex.EncodeToString(hash[:])

	session, err := a.repository.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid session")
	}
	if session.IsExpired(time.Now().UTC()) {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid session")
	}

	return session, nil
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(repository Repository) Authenticator {
	return &authenticator{repository: repository}
}

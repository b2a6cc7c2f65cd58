// Package http provides the OAuth2 protocol endpoints and their middleware.
package http

import (
	"context"

	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
	"github.com/authflow/authflow/internal/session"
)

// sessionKey is a context key type for storing authenticated sessions.
type sessionKey struct{}

// tokenInfoKey is a context key type for storing validated bearer tokens.
type tokenInfoKey struct{}

// WithSession stores an authenticated session in the context.
// This is called by the session middleware after successful authentication.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// GetSession retrieves an authenticated session from the context.
// Returns (session, true) if one is present, or (nil, false) otherwise.
func GetSession(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*session.Session)
	return s, ok
}

// WithTokenInfo stores a validated bearer token identity in the context.
// This is called by the bearer middleware after successful validation.
func WithTokenInfo(ctx context.Context, info *oauthDomain.TokenInfo) context.Context {
	return context.WithValue(ctx, tokenInfoKey{}, info)
}

// GetTokenInfo retrieves a validated bearer token identity from the context.
// Returns (info, true) if one is present, or (nil, false) otherwise.
func GetTokenInfo(ctx context.Context) (*oauthDomain.TokenInfo, bool) {
	info, ok := ctx.Value(tokenInfoKey{}).(*oauthDomain.TokenInfo)
	return info, ok
}

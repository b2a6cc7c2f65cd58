package domain

import (
	"fmt"

	"github.com/authflow/authflow/internal/errors"
)

// OAuth2 protocol error codes (RFC 6749 sections 4.1.2.1 and 5.2).
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidClient      = "invalid_client"
	ErrorCodeInvalidGrant       = "invalid_grant"
	ErrorCodeInvalidScope       = "invalid_scope"
	ErrorCodeUnauthorizedClient = "unauthorized_client"
	ErrorCodeAccessDenied       = "access_denied"
	ErrorCodeServerError        = "server_error"
)

// OAuth2Error is a protocol-level failure carried back to the client,
// either as redirect query parameters (authorization endpoint) or as a
// JSON error body (token endpoint). It is distinct from the internal
// error sentinels: those describe storage and input failures, this
// describes what the client application is told.
type OAuth2Error struct {
	Code        string
	Description string
}

// Error implements the error interface.
func (e *OAuth2Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// NewOAuth2Error creates a protocol error with the given code and description.
func NewOAuth2Error(code, description string) *OAuth2Error {
	return &OAuth2Error{Code: code, Description: description}
}

// AsOAuth2Error extracts an OAuth2Error from an error chain.
// Returns nil if the chain does not carry one.
func AsOAuth2Error(err error) *OAuth2Error {
	var oauthErr *OAuth2Error
	if errors.As(err, &oauthErr) {
		return oauthErr
	}
	return nil
}

// Storage-level lookup errors.
var (
	// ErrClientNotFound indicates a client with the specified ID was not found.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	// ErrAuthorizationRequestNotFound indicates the consent ticket is missing,
	// expired, or already consumed.
	ErrAuthorizationRequestNotFound = errors.Wrap(errors.ErrNotFound, "authorization request not found")

	// ErrAuthorizationCodeNotFound indicates the code is missing, expired, or already used.
	ErrAuthorizationCodeNotFound = errors.Wrap(errors.ErrNotFound, "authorization code not found")

	// ErrAccessTokenNotFound indicates the access token is missing.
	ErrAccessTokenNotFound = errors.Wrap(errors.ErrNotFound, "access token not found")

	// ErrRefreshTokenNotFound indicates the refresh token is missing.
	ErrRefreshTokenNotFound = errors.Wrap(errors.ErrNotFound, "refresh token not found")
)

package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/authflow/authflow/internal/httputil"
	"github.com/authflow/authflow/internal/oauth/usecase"
	"github.com/authflow/authflow/internal/session"
)

// sessionCookieName is the cookie carrying the opaque session token set by
// the external identity layer.
const sessionCookieName = "authflow_session"

// SessionMiddleware authenticates the browser session behind the consent
// endpoints. The session token is read from the session cookie, with an
// X-Session-Token header fallback for non-browser consent UIs.
//
// Returns 401 when the token is missing, unknown, or expired.
func SessionMiddleware(authenticator session.Authenticator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil || token == "" {
			token = c.GetHeader("X-Session-Token")
		}

		s, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithSession(c.Request.Context(), s))
		c.Next()
	}
}

// BearerMiddleware validates the Authorization bearer token on resource
// endpoints and stores the resulting token identity in the request context.
//
// Returns 401 with a WWW-Authenticate challenge when the token is missing
// or invalid.
func BearerMiddleware(validateUseCase usecase.ValidateUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := bearerToken(c.GetHeader("Authorization"))

		info, err := validateUseCase.Validate(c.Request.Context(), bearer)
		if err != nil {
			c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":             "invalid_token",
				"error_description": "the access token is missing, expired, or revoked",
			})
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithTokenInfo(c.Request.Context(), info))
		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

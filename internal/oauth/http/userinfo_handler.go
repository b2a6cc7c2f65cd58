package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authflow/authflow/internal/httputil"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
	"github.com/authflow/authflow/internal/user"
)

// UserInfoHandler serves OIDC userinfo claims for validated bearer tokens.
type UserInfoHandler struct {
	userRepository user.Repository
	logger         *slog.Logger
}

// NewUserInfoHandler creates a new userinfo handler.
func NewUserInfoHandler(userRepository user.Repository, logger *slog.Logger) *UserInfoHandler {
	return &UserInfoHandler{
		userRepository: userRepository,
		logger:         logger,
	}
}

// UserInfoResponse carries the claims the token's scopes allow. The sub
// claim is always present; profile and email claims are filtered by scope.
type UserInfoResponse struct {
	Sub           string `json:"sub"`
	Name          string `json:"name,omitempty"`
	UpdatedAt     int64  `json:"updated_at,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified *bool  `json:"email_verified,omitempty"`
}

// UserInfoEndpointHandler returns the claims for the token's user.
// GET /oauth2/userinfo - requires a bearer token.
func (h *UserInfoHandler) UserInfoEndpointHandler(c *gin.Context) {
	info, ok := GetTokenInfo(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return
	}

	u, err := h.userRepository.Get(c.Request.Context(), info.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := UserInfoResponse{Sub: u.ID.String()}
	if oauthDomain.ScopeContains(info.Scopes, oauthDomain.ScopeProfile) {
		response.Name = u.Name
		response.UpdatedAt = u.UpdatedAt.UTC().Unix()
	}
	if oauthDomain.ScopeContains(info.Scopes, oauthDomain.ScopeEmail) {
		response.Email = u.Email
		verified := u.EmailVerified
		response.EmailVerified = &verified
	}

	c.JSON(http.StatusOK, response)
}

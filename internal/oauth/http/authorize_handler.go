package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/authflow/authflow/internal/httputil"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
	"github.com/authflow/authflow/internal/oauth/usecase"
)

// AuthorizeHandler handles the browser-facing authorization and consent
// endpoints.
type AuthorizeHandler struct {
	authorizeUseCase usecase.AuthorizeUseCase
	consentUseCase   usecase.ConsentUseCase
	logger           *slog.Logger
}

// NewAuthorizeHandler creates a new authorize handler.
func NewAuthorizeHandler(
	authorizeUseCase usecase.AuthorizeUseCase,
	consentUseCase usecase.ConsentUseCase,
	logger *slog.Logger,
) *AuthorizeHandler {
	return &AuthorizeHandler{
		authorizeUseCase: authorizeUseCase,
		consentUseCase:   consentUseCase,
		logger:           logger,
	}
}

// AuthorizeResponse is the pending consent ticket returned to the consent UI.
type AuthorizeResponse struct {
	RequestID string    `json:"request_id"`
	Scopes    []string  `json:"scopes"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthRequestResponse is the client display data the consent UI renders.
type AuthRequestResponse struct {
	RequestID         string    `json:"request_id"`
	ClientName        string    `json:"client_name"`
	ClientDescription string    `json:"client_description"`
	Scopes            []string  `json:"scopes"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// ConsentRequest is the consent decision body.
type ConsentRequest struct {
	RequestID string `json:"request_id"`
	Approved  bool   `json:"approved"`
}

// ConsentResponse carries the redirect the browser must follow after the
// decision.
type ConsentResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// AuthorizeHandler starts the authorization code flow.
// GET /oauth2/authorize
//
// Failures before the redirect URI is trusted render a 400 error page;
// failures after (e.g. invalid scope) redirect back to the client. Success
// returns the pending consent ticket for the consent UI.
func (h *AuthorizeHandler) AuthorizeHandler(c *gin.Context) {
	clientID, err := uuid.Parse(c.Query("client_id"))
	if err != nil {
		errorPage(c, oauthDomain.ErrorCodeInvalidRequest, "client_id must be a valid UUID")
		return
	}

	if c.Query("response_type") != string(oauthDomain.ResponseTypeCode) {
		errorPage(c, oauthDomain.ErrorCodeInvalidRequest, "response_type must be code")
		return
	}

	input := &oauthDomain.BeginAuthorizationInput{
		ClientID:            clientID,
		RedirectURI:         c.Query("redirect_uri"),
		Scope:               c.Query("scope"),
		State:               c.Query("state"),
		CodeChallenge:       c.Query("code_challenge"),
		CodeChallengeMethod: c.Query("code_challenge_method"),
	}

	result, err := h.authorizeUseCase.Begin(c.Request.Context(), input)
	if err != nil {
		var failure *oauthDomain.AuthorizeFailure
		if errors.As(err, &failure) {
			errorPage(c, failure.Code, failure.Description)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if result.Redirect != nil {
		h.redirect(c, result.Redirect)
		return
	}

	c.JSON(http.StatusOK, AuthorizeResponse{
		RequestID: result.Request.ID.String(),
		Scopes:    result.Request.Scopes,
		ExpiresAt: result.Request.ExpiresAt,
	})
}

// AuthRequestHandler binds the session user to a pending request and returns
// the client display data.
// GET /api/oauth2/auth-request/:request_id - requires a session.
func (h *AuthorizeHandler) AuthRequestHandler(c *gin.Context) {
	s, ok := GetSession(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Session required"})
		return
	}

	requestID, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			errors.New("invalid request ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.authorizeUseCase.AttachUser(c.Request.Context(), requestID, s.UserID, s.TenantID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	ticket, err := h.authorizeUseCase.GetTicket(c.Request.Context(), requestID, s.TenantID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, AuthRequestResponse{
		RequestID:         ticket.RequestID.String(),
		ClientName:        ticket.ClientName,
		ClientDescription: ticket.ClientDescription,
		Scopes:            ticket.Scopes,
		ExpiresAt:         ticket.ExpiresAt,
	})
}

// ConsentHandler applies the consent decision and returns the redirect the
// browser must follow.
// POST /api/oauth2/consent - requires a session.
func (h *AuthorizeHandler) ConsentHandler(c *gin.Context) {
	s, ok := GetSession(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Session required"})
		return
	}

	var req ConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			errors.New("invalid request ID format: must be a valid UUID"),
			h.logger)
		return
	}

	redirect, err := h.consentUseCase.Decide(c.Request.Context(), requestID, s.UserID, s.TenantID, req.Approved)
	if err != nil {
		var failure *oauthDomain.AuthorizeFailure
		if errors.As(err, &failure) {
			errorPage(c, failure.Code, failure.Description)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	redirectURL, err := redirect.URL()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, ConsentResponse{RedirectURL: redirectURL})
}

// redirect sends the browser to a trusted redirect target.
func (h *AuthorizeHandler) redirect(c *gin.Context, r *oauthDomain.AuthorizeRedirect) {
	redirectURL, err := r.URL()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

// errorPage renders a protocol failure that must not redirect.
func errorPage(c *gin.Context, code, description string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":             code,
		"error_description": description,
	})
}

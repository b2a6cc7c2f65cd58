package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
	"github.com/authflow/authflow/internal/oauth/usecase"
)

// TokenHandler handles the client-facing token and revocation endpoints.
type TokenHandler struct {
	tokenUseCase usecase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(tokenUseCase usecase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// TokenRequest carries the token endpoint parameters. Clients may send a
// form body (RFC 6749) or JSON; client credentials may also arrive via
// HTTP Basic auth.
type TokenRequest struct {
	GrantType    string `form:"grant_type" json:"grant_type"`
	Code         string `form:"code" json:"code"`
	RedirectURI  string `form:"redirect_uri" json:"redirect_uri"`
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
	ClientID     string `form:"client_id" json:"client_id"`
	ClientSecret string `form:"client_secret" json:"client_secret"`
	CodeVerifier string `form:"code_verifier" json:"code_verifier"`
}

// TokenResponse is the success shape of the token endpoint (RFC 6749 §5.1).
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope"`
}

// RevokeRequest carries the revocation endpoint parameters (RFC 7009).
type RevokeRequest struct {
	Token        string `form:"token" json:"token"`
	ClientID     string `form:"client_id" json:"client_id"`
	ClientSecret string `form:"client_secret" json:"client_secret"`
}

// TokenEndpointHandler exchanges grants for token pairs.
// POST /oauth2/token
//
// Dispatches on grant_type: authorization_code and refresh_token are the
// supported grants. Protocol failures return {error, error_description}
// with 400, client authentication failures 401.
func (h *TokenHandler) TokenEndpointHandler(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		tokenError(c, oauthDomain.NewOAuth2Error(
			oauthDomain.ErrorCodeInvalidRequest,
			"malformed request body",
		))
		return
	}

	clientID, clientSecret, err := clientCredentials(c, req.ClientID, req.ClientSecret)
	if err != nil {
		tokenError(c, err)
		return
	}

	switch oauthDomain.GrantType(req.GrantType) {
	case oauthDomain.GrantTypeAuthorizationCode:
		h.exchange(c, &req, clientID, clientSecret)
	case oauthDomain.GrantTypeRefreshToken:
		h.refresh(c, &req, clientID, clientSecret)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "unsupported_grant_type",
			"error_description": "grant_type must be authorization_code or refresh_token",
		})
	}
}

func (h *TokenHandler) exchange(c *gin.Context, req *TokenRequest, clientID uuid.UUID, clientSecret string) {
	if req.Code == "" {
		tokenError(c, oauthDomain.NewOAuth2Error(oauthDomain.ErrorCodeInvalidRequest, "code is required"))
		return
	}

	output, err := h.tokenUseCase.Exchange(c.Request.Context(), &oauthDomain.ExchangeCodeInput{
		Code:         req.Code,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  req.RedirectURI,
		CodeVerifier: req.CodeVerifier,
	})
	if err != nil {
		h.protocolError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapTokenPair(output))
}

func (h *TokenHandler) refresh(c *gin.Context, req *TokenRequest, clientID uuid.UUID, clientSecret string) {
	if req.RefreshToken == "" {
		tokenError(c, oauthDomain.NewOAuth2Error(oauthDomain.ErrorCodeInvalidRequest, "refresh_token is required"))
		return
	}

	output, err := h.tokenUseCase.Refresh(c.Request.Context(), &oauthDomain.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
	if err != nil {
		h.protocolError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapTokenPair(output))
}

// RevokeHandler revokes the presented token for an authenticated client.
// POST /oauth2/revoke
//
// Per RFC 7009 an unknown token is not an error: the endpoint answers 200
// for every well-formed, authenticated request.
func (h *TokenHandler) RevokeHandler(c *gin.Context) {
	var req RevokeRequest
	if err := c.ShouldBind(&req); err != nil {
		tokenError(c, oauthDomain.NewOAuth2Error(
			oauthDomain.ErrorCodeInvalidRequest,
			"malformed request body",
		))
		return
	}

	if req.Token == "" {
		tokenError(c, oauthDomain.NewOAuth2Error(oauthDomain.ErrorCodeInvalidRequest, "token is required"))
		return
	}

	clientID, clientSecret, err := clientCredentials(c, req.ClientID, req.ClientSecret)
	if err != nil {
		tokenError(c, err)
		return
	}

	if err := h.tokenUseCase.Revoke(c.Request.Context(), &oauthDomain.RevokeTokenInput{
		Token:        req.Token,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}); err != nil {
		h.protocolError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// protocolError maps a token use case failure to the wire.
func (h *TokenHandler) protocolError(c *gin.Context, err error) {
	if oauthErr := oauthDomain.AsOAuth2Error(err); oauthErr != nil {
		tokenError(c, oauthErr)
		return
	}

	// Storage and other internal failures never leak details to clients
	h.logger.Error("token endpoint internal error", slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": oauthDomain.ErrorCodeServerError,
	})
}

// clientCredentials resolves the client id and secret from the body or the
// HTTP Basic auth header. Basic credentials win when both are present.
func clientCredentials(c *gin.Context, bodyID, bodySecret string) (uuid.UUID, string, error) {
	idValue, secret := bodyID, bodySecret
	if basicID, basicSecret, ok := c.Request.BasicAuth(); ok {
		idValue, secret = basicID, basicSecret
	}

	clientID, err := uuid.Parse(idValue)
	if err != nil {
		return uuid.Nil, "", oauthDomain.NewOAuth2Error(
			oauthDomain.ErrorCodeInvalidClient,
			"client_id must be a valid UUID",
		)
	}
	return clientID, secret, nil
}

// tokenError writes a protocol error body with the RFC 6749 status code.
func tokenError(c *gin.Context, err error) {
	oauthErr := oauthDomain.AsOAuth2Error(err)
	if oauthErr == nil {
		oauthErr = oauthDomain.NewOAuth2Error(oauthDomain.ErrorCodeServerError, "")
	}

	status := http.StatusBadRequest
	if oauthErr.Code == oauthDomain.ErrorCodeInvalidClient {
		status = http.StatusUnauthorized
		c.Header("WWW-Authenticate", `Basic realm="oauth2/token"`)
	}

	c.JSON(status, gin.H{
		"error":             oauthErr.Code,
		"error_description": oauthErr.Description,
	})
}

func mapTokenPair(output *oauthDomain.TokenPairOutput) TokenResponse {
	return TokenResponse{
		AccessToken:  output.AccessToken,
		TokenType:    output.TokenType,
		ExpiresIn:    output.ExpiresIn,
		RefreshToken: output.RefreshToken,
		Scope:        oauthDomain.FormatScope(output.Scopes),
	}
}

package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/authflow/authflow/internal/config"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

// DiscoveryHandler serves the OpenID Provider configuration document.
type DiscoveryHandler struct {
	config *config.Config
}

// NewDiscoveryHandler creates a new discovery handler.
func NewDiscoveryHandler(cfg *config.Config) *DiscoveryHandler {
	return &DiscoveryHandler{config: cfg}
}

// DiscoveryResponse is the OpenID Provider metadata document.
type DiscoveryResponse struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	UserInfoEndpoint                  string   `json:"userinfo_endpoint"`
	RevocationEndpoint                string   `json:"revocation_endpoint"`
	JwksURI                           string   `json:"jwks_uri"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	ScopesSupported                   []string `json:"scopes_supported"`
	SubjectTypesSupported             []string `json:"subject_types_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	CodeChallengeMethodsSupported     []string `json:"code_challenge_methods_supported"`
}

// DiscoveryEndpointHandler returns the provider metadata.
// GET /.well-known/openid-configuration
func (h *DiscoveryHandler) DiscoveryEndpointHandler(c *gin.Context) {
	issuer := strings.TrimSuffix(h.config.Issuer, "/")

	challengeMethods := []string{string(oauthDomain.CodeChallengeMethodS256)}
	if h.config.PKCEAllowPlain {
		challengeMethods = append(challengeMethods, string(oauthDomain.CodeChallengeMethodPlain))
	}

	c.JSON(http.StatusOK, DiscoveryResponse{
		Issuer:                issuer,
		AuthorizationEndpoint: issuer + "/oauth2/authorize",
		TokenEndpoint:         issuer + "/oauth2/token",
		UserInfoEndpoint:      issuer + "/oauth2/userinfo",
		RevocationEndpoint:    issuer + "/oauth2/revoke",
		JwksURI:               issuer + "/.well-known/jwks.json",
		ResponseTypesSupported: []string{
			string(oauthDomain.ResponseTypeCode),
		},
		GrantTypesSupported: []string{
			string(oauthDomain.GrantTypeAuthorizationCode),
			string(oauthDomain.GrantTypeRefreshToken),
		},
		ScopesSupported: []string{
			oauthDomain.ScopeOpenID,
			oauthDomain.ScopeProfile,
			oauthDomain.ScopeEmail,
		},
		SubjectTypesSupported: []string{"public"},
		TokenEndpointAuthMethodsSupported: []string{
			"client_secret_basic",
			"client_secret_post",
			"none",
		},
		CodeChallengeMethodsSupported: challengeMethods,
	})
}

// JWKSResponse is the JSON Web Key Set document.
type JWKSResponse struct {
	Keys []any `json:"keys"`
}

// JWKSEndpointHandler returns the key set. Tokens are opaque and validated
// by lookup, so the set is published empty for clients that fetch it
// unconditionally.
// GET /.well-known/jwks.json
func (h *DiscoveryHandler) JWKSEndpointHandler(c *gin.Context) {
	c.JSON(http.StatusOK, JWKSResponse{Keys: []any{}})
}

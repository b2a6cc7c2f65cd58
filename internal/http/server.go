// Package http provides the HTTP server and route wiring.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/authflow/authflow/internal/config"
	"github.com/authflow/authflow/internal/metrics"
	oauthHTTP "github.com/authflow/authflow/internal/oauth/http"
	"github.com/authflow/authflow/internal/oauth/usecase"
	"github.com/authflow/authflow/internal/session"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	config *config.Config
	db     *sql.DB
	logger *slog.Logger

	authorizeHandler     *oauthHTTP.AuthorizeHandler
	tokenHandler         *oauthHTTP.TokenHandler
	userInfoHandler      *oauthHTTP.UserInfoHandler
	discoveryHandler     *oauthHTTP.DiscoveryHandler
	sessionAuthenticator session.Authenticator
	validateUseCase      usecase.ValidateUseCase
	meterProvider        metric.MeterProvider
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
	authorizeHandler *oauthHTTP.AuthorizeHandler,
	tokenHandler *oauthHTTP.TokenHandler,
	userInfoHandler *oauthHTTP.UserInfoHandler,
	discoveryHandler *oauthHTTP.DiscoveryHandler,
	sessionAuthenticator session.Authenticator,
	validateUseCase usecase.ValidateUseCase,
	meterProvider metric.MeterProvider,
) *Server {
	return &Server{
		config:               cfg,
		db:                   db,
		logger:               logger,
		authorizeHandler:     authorizeHandler,
		tokenHandler:         tokenHandler,
		userInfoHandler:      userInfoHandler,
		discoveryHandler:     discoveryHandler,
		sessionAuthenticator: sessionAuthenticator,
		validateUseCase:      validateUseCase,
		meterProvider:        meterProvider,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with all routes and middleware.
func (s *Server) SetupRouter() *gin.Engine {
	gin.SetMode(s.config.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(s.config.CORSEnabled, s.config.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if s.meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(s.meterProvider, s.config.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)
	router.GET("/.well-known/openid-configuration", s.discoveryHandler.DiscoveryEndpointHandler)
	router.GET("/.well-known/jwks.json", s.discoveryHandler.JWKSEndpointHandler)

	// Browser-facing authorization endpoint. Authentication happens later,
	// at the consent step.
	router.GET("/oauth2/authorize", s.authorizeHandler.AuthorizeHandler)

	// Consent API, behind the session established by the identity layer.
	consentAPI := router.Group("/api/oauth2")
	consentAPI.Use(oauthHTTP.SessionMiddleware(s.sessionAuthenticator, s.logger))
	{
		consentAPI.GET("/auth-request/:request_id", s.authorizeHandler.AuthRequestHandler)
		consentAPI.POST("/consent", s.authorizeHandler.ConsentHandler)
	}

	// Client-facing token endpoints. Clients authenticate per request, so
	// an IP rate limit is the only brake on credential guessing.
	tokenGroup := router.Group("/oauth2")
	if s.config.RateLimitTokenEnabled {
		tokenGroup.Use(oauthHTTP.TokenRateLimitMiddleware(
			s.config.RateLimitTokenRequestsPerSec,
			s.config.RateLimitTokenBurst,
			s.logger,
		))
	}
	{
		tokenGroup.POST("/token", s.tokenHandler.TokenEndpointHandler)
		tokenGroup.POST("/revoke", s.tokenHandler.RevokeHandler)
	}

	// Resource endpoint, behind bearer token validation.
	userInfoGroup := router.Group("/oauth2")
	userInfoGroup.Use(oauthHTTP.BearerMiddleware(s.validateUseCase, s.logger))
	{
		userInfoGroup.GET("/userinfo", s.userInfoHandler.UserInfoEndpointHandler)
	}

	return router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.SetupRouter()

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic. The
// database must answer a ping for the server to be ready.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness database ping failed", slog.Any("error", err))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	components["database"] = "ok"
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

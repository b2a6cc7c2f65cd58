// Package app provides the dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/authflow/authflow/internal/config"
	"github.com/authflow/authflow/internal/database"
	"github.com/authflow/authflow/internal/http"
	"github.com/authflow/authflow/internal/metrics"
	oauthHTTP "github.com/authflow/authflow/internal/oauth/http"
	oauthService "github.com/authflow/authflow/internal/oauth/service"
	oauthUseCase "github.com/authflow/authflow/internal/oauth/usecase"
	"github.com/authflow/authflow/internal/oauth/scheduler"
	"github.com/authflow/authflow/internal/session"
	"github.com/authflow/authflow/internal/user"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Repositories
	clientRepository       oauthUseCase.ClientRepository
	requestRepository      oauthUseCase.AuthorizationRequestRepository
	codeRepository         oauthUseCase.AuthorizationCodeRepository
	accessTokenRepository  oauthUseCase.AccessTokenRepository
	refreshTokenRepository oauthUseCase.RefreshTokenRepository
	sessionRepository      session.Repository
	userRepository         user.Repository

	// Services
	secretService     oauthService.SecretService
	credentialService oauthService.CredentialService
	pkceService       oauthService.PKCEService

	// Use Cases
	authorizeUseCase oauthUseCase.AuthorizeUseCase
	consentUseCase   oauthUseCase.ConsentUseCase
	tokenUseCase     oauthUseCase.TokenUseCase
	validateUseCase  oauthUseCase.ValidateUseCase
	clientUseCase    oauthUseCase.ClientUseCase
	cleanupUseCase   oauthUseCase.CleanupUseCase

	// Servers and Workers
	httpServer       *http.Server
	metricsServer    *http.MetricsServer
	cleanupScheduler *scheduler.Scheduler

	// Initialization flags and mutex for thread-safety
	mu                         sync.Mutex
	loggerInit                 sync.Once
	dbInit                     sync.Once
	txManagerInit              sync.Once
	metricsProviderInit        sync.Once
	businessMetricsInit        sync.Once
	clientRepositoryInit       sync.Once
	requestRepositoryInit      sync.Once
	codeRepositoryInit         sync.Once
	accessTokenRepositoryInit  sync.Once
	refreshTokenRepositoryInit sync.Once
	sessionRepositoryInit      sync.Once
	userRepositoryInit         sync.Once
	secretServiceInit          sync.Once
	credentialServiceInit      sync.Once
	pkceServiceInit            sync.Once
	authorizeUseCaseInit       sync.Once
	consentUseCaseInit         sync.Once
	tokenUseCaseInit           sync.Once
	validateUseCaseInit        sync.Once
	clientUseCaseInit          sync.Once
	cleanupUseCaseInit         sync.Once
	httpServerInit             sync.Once
	metricsServerInit          sync.Once
	cleanupSchedulerInit       sync.Once
	initErrors                 map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider, or nil when
// metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are
// disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// CleanupScheduler returns the expired credential sweep scheduler.
func (c *Container) CleanupScheduler() (*scheduler.Scheduler, error) {
	c.cleanupSchedulerInit.Do(func() {
		cleanupUseCase, err := c.CleanupUseCase()
		if err != nil {
			c.initErrors["cleanupScheduler"] = fmt.Errorf("failed to get cleanup use case for scheduler: %w", err)
			return
		}
		c.cleanupScheduler = scheduler.NewScheduler(cleanupUseCase, c.config.CleanupInterval, c.Logger())
	})
	if storedErr, exists := c.initErrors["cleanupScheduler"]; exists {
		return nil, storedErr
	}
	return c.cleanupScheduler, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	authorizeUseCase, err := c.AuthorizeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorize use case for http server: %w", err)
	}

	consentUseCase, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for http server: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}

	validateUseCase, err := c.ValidateUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get validate use case for http server: %w", err)
	}

	userRepository, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for http server: %w", err)
	}

	sessionRepository, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(
		c.config,
		db,
		logger,
		oauthHTTP.NewAuthorizeHandler(authorizeUseCase, consentUseCase, logger),
		oauthHTTP.NewTokenHandler(tokenUseCase, logger),
		oauthHTTP.NewUserInfoHandler(userRepository, logger),
		oauthHTTP.NewDiscoveryHandler(c.config),
		session.NewAuthenticator(sessionRepository),
		validateUseCase,
		meterProviderOrNil(provider),
	)

	return server, nil
}

// meterProviderOrNil converts a possibly-nil *metrics.Provider into the
// metric.MeterProvider interface without wrapping a typed nil.
func meterProviderOrNil(provider *metrics.Provider) metric.MeterProvider {
	if provider == nil {
		return nil
	}
	return provider.MeterProvider()
}

// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	auditService "github.com/brujulapp/brujula/internal/audit/service"
	auditUseCase "github.com/brujulapp/brujula/internal/audit/usecase"
	authService "github.com/brujulapp/brujula/internal/auth/service"
	authUseCase "github.com/brujulapp/brujula/internal/auth/usecase"
	"github.com/brujulapp/brujula/internal/config"
	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
	cryptoService "github.com/brujulapp/brujula/internal/crypto/service"
	cryptoUseCase "github.com/brujulapp/brujula/internal/crypto/usecase"
	"github.com/brujulapp/brujula/internal/database"
	diagnosticsCatalog "github.com/brujulapp/brujula/internal/diagnostics/catalog"
	diagnosticsUseCase "github.com/brujulapp/brujula/internal/diagnostics/usecase"
	goalsCatalog "github.com/brujulapp/brujula/internal/goals/catalog"
	goalsService "github.com/brujulapp/brujula/internal/goals/service"
	goalsUseCase "github.com/brujulapp/brujula/internal/goals/usecase"
	appHTTP "github.com/brujulapp/brujula/internal/http"
	"github.com/brujulapp/brujula/internal/metrics"
	"github.com/brujulapp/brujula/internal/ratelimit"
	studentsUseCase "github.com/brujulapp/brujula/internal/students/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	keyRing         *cryptoDomain.KeyRing
	revealLimiter   *ratelimit.Limiter

	// Services
	secretService  authService.SecretService
	tokenService   authService.TokenService
	envelopeCipher cryptoService.EnvelopeCipher
	kmsService     cryptoService.KMSService
	auditSigner    auditService.AuditSigner
	recommender    *goalsService.Recommender

	// Catalogs
	diagnosticCatalog *diagnosticsCatalog.Catalog
	goalCatalog       *goalsCatalog.Catalog

	// Repositories
	studentRepository  studentsUseCase.StudentRepository
	goalRepository     goalsUseCase.GoalRepository
	resultRepository   diagnosticsUseCase.ResultRepository
	accountRepository  authUseCase.AccountRepository
	tokenRepository    authUseCase.TokenRepository
	auditLogRepository auditUseCase.AuditLogRepository

	// Use Cases
	studentUseCase        studentsUseCase.StudentUseCase
	adminStudentUseCase   studentsUseCase.AdminStudentUseCase
	goalUseCase           goalsUseCase.GoalUseCase
	recommendationUseCase goalsUseCase.RecommendationUseCase
	diagnosticUseCase     diagnosticsUseCase.DiagnosticUseCase
	accountUseCase        authUseCase.AccountUseCase
	tokenUseCase          authUseCase.TokenUseCase
	auditLogUseCase       auditUseCase.AuditLogUseCase
	sweepUseCase          cryptoUseCase.SweepUseCase

	// Servers
	httpServer    *appHTTP.Server
	metricsServer *appHTTP.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                        sync.Mutex
	loggerInit                sync.Once
	dbInit                    sync.Once
	metricsProviderInit       sync.Once
	businessMetricsInit       sync.Once
	keyRingInit               sync.Once
	revealLimiterInit         sync.Once
	secretServiceInit         sync.Once
	tokenServiceInit          sync.Once
	envelopeCipherInit        sync.Once
	kmsServiceInit            sync.Once
	auditSignerInit           sync.Once
	recommenderInit           sync.Once
	diagnosticCatalogInit     sync.Once
	goalCatalogInit           sync.Once
	studentRepositoryInit     sync.Once
	goalRepositoryInit        sync.Once
	resultRepositoryInit      sync.Once
	accountRepositoryInit     sync.Once
	tokenRepositoryInit       sync.Once
	auditLogRepositoryInit    sync.Once
	studentUseCaseInit        sync.Once
	adminStudentUseCaseInit   sync.Once
	goalUseCaseInit           sync.Once
	recommendationUseCaseInit sync.Once
	diagnosticUseCaseInit     sync.Once
	accountUseCaseInit        sync.Once
	tokenUseCaseInit          sync.Once
	auditLogUseCaseInit       sync.Once
	sweepUseCaseInit          sync.Once
	httpServerInit            sync.Once
	metricsServerInit         sync.Once
	initErrors                map[string]error
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
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. Falls back to a
// no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server instance.
func (c *Container) HTTPServer() (*appHTTP.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*appHTTP.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}

		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}

		c.metricsServer = appHTTP.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

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

	// Zero the key material last.
	if c.keyRing != nil {
		c.keyRing.Close()
	}

	if len(shutdownErrors) > 0 {
		return errors.Join(shutdownErrors...)
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

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initHTTPServer creates the API server with the full route table.
func (c *Container) initHTTPServer() (*appHTTP.Server, error) {
	logger := c.Logger()

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}

	sessionHandler, err := c.SessionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get session handler for http server: %w", err)
	}

	studentHandler, err := c.StudentHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get student handler for http server: %w", err)
	}

	adminStudentHandler, err := c.AdminStudentHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin student handler for http server: %w", err)
	}

	diagnosticHandler, err := c.DiagnosticHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnostic handler for http server: %w", err)
	}

	goalHandler, err := c.GoalHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get goal handler for http server: %w", err)
	}

	auditLogHandler, err := c.AuditLogHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log handler for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for http server: %w", err)
	}

	deps := appHTTP.Dependencies{
		TokenUseCase:        tokenUseCase,
		TokenService:        c.TokenService(),
		SessionHandler:      sessionHandler,
		StudentHandler:      studentHandler,
		AdminStudentHandler: adminStudentHandler,
		DiagnosticHandler:   diagnosticHandler,
		GoalHandler:         goalHandler,
		AuditLogHandler:     auditLogHandler,
		MetricsProvider:     metricsProvider,
		BusinessMetrics:     businessMetrics,
	}

	return appHTTP.NewServer(c.config, deps, logger), nil
}

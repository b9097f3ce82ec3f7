// Package http provides the API server, router assembly and server middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	auditHTTP "github.com/brujulapp/brujula/internal/audit/http"
	authDomain "github.com/brujulapp/brujula/internal/auth/domain"
	authHTTP "github.com/brujulapp/brujula/internal/auth/http"
	authService "github.com/brujulapp/brujula/internal/auth/service"
	authUseCase "github.com/brujulapp/brujula/internal/auth/usecase"
	"github.com/brujulapp/brujula/internal/config"
	diagnosticsHTTP "github.com/brujulapp/brujula/internal/diagnostics/http"
	goalsHTTP "github.com/brujulapp/brujula/internal/goals/http"
	"github.com/brujulapp/brujula/internal/metrics"
	studentsHTTP "github.com/brujulapp/brujula/internal/students/http"
)

// Dependencies bundles the handlers and services the API router needs.
type Dependencies struct {
	TokenUseCase authUseCase.TokenUseCase
	TokenService authService.TokenService

	SessionHandler      *authHTTP.SessionHandler
	StudentHandler      *studentsHTTP.StudentHandler
	AdminStudentHandler *studentsHTTP.AdminStudentHandler
	DiagnosticHandler   *diagnosticsHTTP.DiagnosticHandler
	GoalHandler         *goalsHTTP.GoalHandler
	AuditLogHandler     *auditHTTP.AuditLogHandler

	// MetricsProvider and BusinessMetrics are optional; when nil the
	// router is assembled without instrumentation.
	MetricsProvider *metrics.Provider
	BusinessMetrics metrics.BusinessMetrics
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new API server with the full route table assembled.
func NewServer(cfg *config.Config, deps Dependencies, logger *slog.Logger) *Server {
	router := buildRouter(cfg, deps, logger)

	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// buildRouter assembles the Gin engine: server middleware, health probes
// and the versioned API routes with their authentication requirements.
func buildRouter(cfg *config.Config, deps Dependencies, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(requestid.New())
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	businessMetrics := deps.BusinessMetrics
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}

	router.GET("/health", healthHandler)
	router.GET("/ready", readyHandler)

	v1 := router.Group("/v1")

	// Session endpoints are unauthenticated; login validates credentials
	// itself and logout is idempotent.
	v1.POST("/auth/login", deps.SessionHandler.LoginHandler)
	v1.POST("/auth/logout", deps.SessionHandler.LogoutHandler)

	authenticated := v1.Group("")
	authenticated.Use(authHTTP.AuthenticationMiddleware(deps.TokenUseCase, deps.TokenService, logger))
	if cfg.RateLimitEnabled {
		authenticated.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	student := authenticated.Group("")
	student.Use(authHTTP.RequireRole(authDomain.RoleStudent, logger))
	{
		student.GET("/students/me", deps.StudentHandler.GetProfileHandler)
		student.PUT("/students/me", deps.StudentHandler.UpdateProfileHandler)
		student.PUT("/students/me/matricula", deps.StudentHandler.SetMatriculaHandler)

		student.GET("/diagnostics/test", deps.DiagnosticHandler.GetTestHandler)
		student.POST("/diagnostics/submit",
			metrics.BusinessOperationMiddleware(businessMetrics, "diagnostics", "diagnostic_submit"),
			deps.DiagnosticHandler.SubmitHandler)
		student.GET("/diagnostics/results", deps.DiagnosticHandler.HistoryHandler)

		student.GET("/goal-templates", deps.GoalHandler.ListTemplatesHandler)
		student.POST("/goals",
			metrics.BusinessOperationMiddleware(businessMetrics, "goals", "goal_create"),
			deps.GoalHandler.CreateGoalHandler)
		student.GET("/goals", deps.GoalHandler.ListGoalsHandler)
		student.GET("/goals/:id", deps.GoalHandler.GetGoalHandler)
		student.PUT("/goals/:id", deps.GoalHandler.UpdateGoalHandler)
		student.PUT("/goals/:id/status", deps.GoalHandler.UpdateGoalStatusHandler)
	}

	admin := authenticated.Group("/admin")
	admin.Use(authHTTP.RequireRole(authDomain.RoleAdmin, logger))
	{
		admin.GET("/students", deps.AdminStudentHandler.ListStudentsHandler)
		admin.POST("/students/:id/matricula/reveal",
			metrics.BusinessOperationMiddleware(businessMetrics, "students", "matricula_reveal"),
			deps.AdminStudentHandler.RevealMatriculaHandler)
		admin.GET("/reports/students",
			metrics.BusinessOperationMiddleware(businessMetrics, "students", "students_export"),
			deps.AdminStudentHandler.ExportStudentsHandler)

		admin.GET("/audit-logs", deps.AuditLogHandler.ListHandler)
		admin.GET("/audit-logs/verify", deps.AuditLogHandler.VerifyHandler)
	}

	return router
}

// healthHandler reports process liveness.
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readyHandler reports readiness to receive traffic.
func readyHandler(c *gin.Context) {
	select {
	case <-c.Request.Context().Done():
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

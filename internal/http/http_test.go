package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	auditHTTP "github.com/brujulapp/brujula/internal/audit/http"
	authHTTP "github.com/brujulapp/brujula/internal/auth/http"
	"github.com/brujulapp/brujula/internal/config"
	diagnosticsHTTP "github.com/brujulapp/brujula/internal/diagnostics/http"
	goalsHTTP "github.com/brujulapp/brujula/internal/goals/http"
	"github.com/brujulapp/brujula/internal/metrics"
	studentsHTTP "github.com/brujulapp/brujula/internal/students/http"
)

// TestMain sets Gin to test mode and verifies no goroutines leak.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

// newTestServer assembles a server with the full route table. Handlers get
// nil use cases; tests only exercise routes that fail before reaching them.
// Rate limiting is disabled to avoid its cleanup goroutine.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		ServerHost:       "localhost",
		ServerPort:       8080,
		MetricsNamespace: "brujula",
		RateLimitEnabled: false,
	}

	deps := Dependencies{
		SessionHandler:      authHTTP.NewSessionHandler(nil, nil, logger),
		StudentHandler:      studentsHTTP.NewStudentHandler(nil, logger),
		AdminStudentHandler: studentsHTTP.NewAdminStudentHandler(nil, logger),
		DiagnosticHandler:   diagnosticsHTTP.NewDiagnosticHandler(nil, logger),
		GoalHandler:         goalsHTTP.NewGoalHandler(nil, nil, logger),
		AuditLogHandler:     auditHTTP.NewAuditLogHandler(nil, logger),
	}

	return NewServer(cfg, deps, logger)
}

func TestServer_HealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	recorder := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]string
	err := json.Unmarshal(recorder.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "healthy", response["status"])
}

func TestServer_ReadyEndpoint(t *testing.T) {
	server := newTestServer(t)

	recorder := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response map[string]string
	err := json.Unmarshal(recorder.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "ready", response["status"])
}

func TestServer_AuthenticatedRoutesRejectAnonymousRequests(t *testing.T) {
	server := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/students/me"},
		{http.MethodPut, "/v1/students/me/matricula"},
		{http.MethodGet, "/v1/diagnostics/test"},
		{http.MethodPost, "/v1/diagnostics/submit"},
		{http.MethodGet, "/v1/goal-templates"},
		{http.MethodPost, "/v1/goals"},
		{http.MethodGet, "/v1/admin/students"},
		{http.MethodPost, "/v1/admin/students/" + uuid.Must(uuid.NewV7()).String() + "/matricula/reveal"},
		{http.MethodGet, "/v1/admin/reports/students"},
		{http.MethodGet, "/v1/admin/audit-logs"},
		{http.MethodGet, "/v1/admin/audit-logs/verify"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			server.GetHandler().ServeHTTP(recorder, httptest.NewRequest(route.method, route.path, nil))

			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		})
	}
}

func TestServer_UnknownRouteReturns404(t *testing.T) {
	server := newTestServer(t)

	recorder := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCustomLoggerMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/test?stage=enfoque", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	recorder := httptest.NewRecorder()

	// Should not panic - Recovery middleware catches it
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestMetricsServer_ServesPrometheusFormat(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider, err := metrics.NewProvider("brujula_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(t.Context()))
	})

	metricsServer := NewMetricsServer("localhost", 8081, logger, provider)

	recorder := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestMetricsServer_NilProviderHasNoMetricsRoute(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	metricsServer := NewMetricsServer("localhost", 8081, logger, nil)

	recorder := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

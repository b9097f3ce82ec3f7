package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("brujula_test")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "brujula_test")

	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("brujula_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "brujula_test")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "students", "matricula_reveal", "success")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "students", "matricula_reveal", "error")
		bm.RecordOperation(context.Background(), "diagnostics", "diagnostic_submit", "success")
		bm.RecordOperation(context.Background(), "goals", "goal_create", "success")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("brujula_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "brujula_test")
	require.NoError(t, err)

	bm.RecordDuration(context.Background(), "students", "students_export", 150*time.Millisecond, "success")
	bm.RecordDuration(context.Background(), "students", "students_export", time.Second, "error")
}

func TestBusinessOperationMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(t *testing.T, handler gin.HandlerFunc) *gin.Engine {
		t.Helper()
		provider, err := NewProvider("brujula_test")
		require.NoError(t, err)

		bm, err := NewBusinessMetrics(provider.MeterProvider(), "brujula_test")
		require.NoError(t, err)

		router := gin.New()
		router.POST("/reveal", BusinessOperationMiddleware(bm, "students", "matricula_reveal"), handler)
		return router
	}

	t.Run("SuccessStatusRecordedAsSuccess", func(t *testing.T) {
		router := newRouter(t, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"matricula": "A0000001"})
		})

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/reveal", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("RateLimitedStatusRecordedAsError", func(t *testing.T) {
		router := newRouter(t, func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limited"})
		})

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/reveal", nil))

		assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	})
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()

	// No-op implementations must be safe to call
	bm.RecordOperation(context.Background(), "students", "matricula_reveal", "success")
	bm.RecordDuration(context.Background(), "students", "matricula_reveal", time.Second, "success")
}

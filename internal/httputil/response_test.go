package httputil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/brujulapp/brujula/internal/errors"
	studentsDomain "github.com/brujulapp/brujula/internal/students/domain"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		errorCode  string
	}{
		{name: "not found", err: apperrors.ErrNotFound, statusCode: http.StatusNotFound, errorCode: "not_found"},
		{name: "conflict", err: apperrors.ErrConflict, statusCode: http.StatusConflict, errorCode: "conflict"},
		{
			name:       "invalid input",
			err:        apperrors.ErrInvalidInput,
			statusCode: http.StatusUnprocessableEntity,
			errorCode:  "invalid_input",
		},
		{
			name:       "unauthorized",
			err:        apperrors.ErrUnauthorized,
			statusCode: http.StatusUnauthorized,
			errorCode:  "unauthorized",
		},
		{name: "forbidden", err: apperrors.ErrForbidden, statusCode: http.StatusForbidden, errorCode: "forbidden"},
		{
			name:       "rate limited",
			err:        apperrors.ErrRateLimited,
			statusCode: http.StatusTooManyRequests,
			errorCode:  "rate_limited",
		},
		{
			name:       "unknown error",
			err:        apperrors.New("database exploded"),
			statusCode: http.StatusInternalServerError,
			errorCode:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := newTestContext()
			HandleErrorGin(c, tt.err, discardLogger())

			assert.Equal(t, tt.statusCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.errorCode)
		})
	}
}

func TestHandleErrorGin_RateLimitedSetsRetryAfter(t *testing.T) {
	c, recorder := newTestContext()
	err := &studentsDomain.RateLimitedError{RetryAfter: 90 * time.Second}

	HandleErrorGin(c, err, discardLogger())

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "90", recorder.Header().Get("Retry-After"))
}

func TestHandleErrorGin_InternalErrorHidesDetails(t *testing.T) {
	c, recorder := newTestContext()
	HandleErrorGin(c, apperrors.New("secret detail"), discardLogger())

	assert.NotContains(t, recorder.Body.String(), "secret detail")
}

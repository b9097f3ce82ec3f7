package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		offset, limit, err := ParsePagination(contextWithQuery(""))

		require.NoError(t, err)
		assert.Equal(t, 0, offset)
		assert.Equal(t, 50, limit)
	})

	t.Run("ExplicitValues", func(t *testing.T) {
		offset, limit, err := ParsePagination(contextWithQuery("offset=20&limit=10"))

		require.NoError(t, err)
		assert.Equal(t, 20, offset)
		assert.Equal(t, 10, limit)
	})

	t.Run("NegativeOffset", func(t *testing.T) {
		_, _, err := ParsePagination(contextWithQuery("offset=-1"))
		assert.Error(t, err)
	})

	t.Run("LimitTooLarge", func(t *testing.T) {
		_, _, err := ParsePagination(contextWithQuery("limit=101"))
		assert.Error(t, err)
	})

	t.Run("NonNumericValues", func(t *testing.T) {
		_, _, err := ParsePagination(contextWithQuery("limit=abc"))
		assert.Error(t, err)
	})
}

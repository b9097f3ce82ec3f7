package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/brujulapp/brujula/internal/auth/domain"
	authService "github.com/brujulapp/brujula/internal/auth/service"
)

// mockTokenUseCase is a hand-written testify mock for TokenUseCase.
type mockTokenUseCase struct {
	mock.Mock
}

func (m *mockTokenUseCase) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockTokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Account, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Account), args.Error(1)
}

func (m *mockTokenUseCase) Logout(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(tokenUseCase *mockTokenUseCase, requiredRole authDomain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokenService := authService.NewTokenService()
	logger := discardLogger()

	router := gin.New()
	group := router.Group("/", AuthenticationMiddleware(tokenUseCase, tokenService, logger))
	if requiredRole != "" {
		group.Use(RequireRole(requiredRole, logger))
	}
	group.GET("/protected", func(c *gin.Context) {
		account, ok := GetAccount(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"account_id": account.ID.String()})
	})
	return router
}

func activeAccount(role authDomain.Role) *authDomain.Account {
	return &authDomain.Account{
		ID:       uuid.Must(uuid.NewV7()),
		Email:    "someone@uni.edu",
		Role:     role,
		IsActive: true,
	}
}

func TestAuthenticationMiddleware(t *testing.T) {
	tokenService := authService.NewTokenService()

	t.Run("ValidToken", func(t *testing.T) {
		tokenUseCase := &mockTokenUseCase{}
		account := activeAccount(authDomain.RoleStudent)
		tokenUseCase.On("Authenticate", mock.Anything, tokenService.HashToken("valid-token")).
			Return(account, nil).
			Once()

		router := newRouter(tokenUseCase, "")
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), account.ID.String())
	})

	t.Run("CaseInsensitiveBearerPrefix", func(t *testing.T) {
		tokenUseCase := &mockTokenUseCase{}
		tokenUseCase.On("Authenticate", mock.Anything, tokenService.HashToken("valid-token")).
			Return(activeAccount(authDomain.RoleStudent), nil).
			Once()

		router := newRouter(tokenUseCase, "")
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bearer valid-token")
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		router := newRouter(&mockTokenUseCase{}, "")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		router := newRouter(&mockTokenUseCase{}, "")
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		tokenUseCase := &mockTokenUseCase{}
		tokenUseCase.On("Authenticate", mock.Anything, mock.Anything).
			Return(nil, authDomain.ErrInvalidCredentials).
			Once()

		router := newRouter(tokenUseCase, "")
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		tokenUseCase := &mockTokenUseCase{}
		tokenUseCase.On("Authenticate", mock.Anything, mock.Anything).
			Return(nil, authDomain.ErrAccountInactive).
			Once()

		router := newRouter(tokenUseCase, "")
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer token")
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

func TestRequireRole(t *testing.T) {
	tokenService := authService.NewTokenService()

	serve := func(role, required authDomain.Role) *httptest.ResponseRecorder {
		tokenUseCase := &mockTokenUseCase{}
		tokenUseCase.On("Authenticate", mock.Anything, tokenService.HashToken("token")).
			Return(activeAccount(role), nil).
			Once()

		router := newRouter(tokenUseCase, required)
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer token")
		router.ServeHTTP(recorder, req)
		return recorder
	}

	t.Run("StudentAccessingStudentRoute", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(authDomain.RoleStudent, authDomain.RoleStudent).Code)
	})

	t.Run("AdminAccessingAdminRoute", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(authDomain.RoleAdmin, authDomain.RoleAdmin).Code)
	})

	t.Run("AdminAccessingStudentRoute", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(authDomain.RoleAdmin, authDomain.RoleStudent).Code)
	})

	t.Run("StudentAccessingAdminRouteIsForbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(authDomain.RoleStudent, authDomain.RoleAdmin).Code)
	})
}

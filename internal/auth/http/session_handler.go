package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brujulapp/brujula/internal/auth/http/dto"
	authService "github.com/brujulapp/brujula/internal/auth/service"
	authUseCase "github.com/brujulapp/brujula/internal/auth/usecase"
	"github.com/brujulapp/brujula/internal/httputil"
	customValidation "github.com/brujulapp/brujula/internal/validation"
)

// SessionHandler handles HTTP requests for login and logout.
type SessionHandler struct {
	tokenUseCase authUseCase.TokenUseCase
	tokenService authService.TokenService
	logger       *slog.Logger
}

// NewSessionHandler creates a new session handler with required dependencies.
func NewSessionHandler(
	tokenUseCase authUseCase.TokenUseCase,
	tokenService authService.TokenService,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		tokenUseCase: tokenUseCase,
		tokenService: tokenService,
		logger:       logger,
	}
}

// LoginHandler issues a new session token for valid credentials.
// POST /v1/auth/login - No authentication required.
// Returns 201 Created with the plain token, shown only once.
func (h *SessionHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plainToken, err := h.tokenUseCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.LoginResponse{Token: plainToken})
}

// LogoutHandler revokes the session token carried in the Authorization
// header. POST /v1/auth/logout - Requires authentication.
// Returns 204 No Content; logout is idempotent.
func (h *SessionHandler) LogoutHandler(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")

	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		c.Status(http.StatusNoContent)
		return
	}

	tokenHash := h.tokenService.HashToken(authHeader[len(bearerPrefix):])
	if err := h.tokenUseCase.Logout(c.Request.Context(), tokenHash); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

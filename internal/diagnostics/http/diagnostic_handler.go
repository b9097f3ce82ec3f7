// Package http provides HTTP handlers for diagnostic tests.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/brujulapp/brujula/internal/auth/http"
	"github.com/brujulapp/brujula/internal/diagnostics/domain"
	"github.com/brujulapp/brujula/internal/diagnostics/http/dto"
	diagnosticsUseCase "github.com/brujulapp/brujula/internal/diagnostics/usecase"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/httputil"
	customValidation "github.com/brujulapp/brujula/internal/validation"
)

// DiagnosticHandler handles HTTP requests for diagnostic tests.
type DiagnosticHandler struct {
	diagnosticUseCase diagnosticsUseCase.DiagnosticUseCase
	logger            *slog.Logger
}

// NewDiagnosticHandler creates a new diagnostic handler with required
// dependencies.
func NewDiagnosticHandler(
	diagnosticUseCase diagnosticsUseCase.DiagnosticUseCase,
	logger *slog.Logger,
) *DiagnosticHandler {
	return &DiagnosticHandler{
		diagnosticUseCase: diagnosticUseCase,
		logger:            logger,
	}
}

// GetTestHandler returns the questionnaire for a stage.
// GET /v1/diagnostics/test?stage=<stage> - Requires student authentication.
func (h *DiagnosticHandler) GetTestHandler(c *gin.Context) {
	stage := domain.Stage(c.Query("stage"))

	test, err := h.diagnosticUseCase.TestForStage(stage)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTestToResponse(test))
}

// SubmitHandler stores a completed diagnostic attempt and returns ranked
// goal recommendations.
// POST /v1/diagnostics/submit - Requires student authentication.
func (h *DiagnosticHandler) SubmitHandler(c *gin.Context) {
	studentID, ok := studentIDFromContext(c)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	var req dto.SubmitDiagnosticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	outcome, err := h.diagnosticUseCase.Submit(c.Request.Context(), diagnosticsUseCase.Submission{
		StudentID: studentID,
		Stage:     domain.Stage(req.Stage),
		Answers:   req.ToAnswers(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapOutcomeToResponse(outcome))
}

// HistoryHandler lists the student's past attempts, newest first.
// GET /v1/diagnostics/results - Requires student authentication.
func (h *DiagnosticHandler) HistoryHandler(c *gin.Context) {
	studentID, ok := studentIDFromContext(c)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	results, err := h.diagnosticUseCase.History(c.Request.Context(), studentID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResultsToListResponse(results))
}

// studentIDFromContext resolves the authenticated account to its linked
// student profile. Accounts without a profile (admins) cannot act as
// students.
func studentIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	return authHTTP.StudentID(c.Request.Context())
}

// Package http provides HTTP handlers for student profiles and the
// administrative student operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/brujulapp/brujula/internal/auth/http"
	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/httputil"
	"github.com/brujulapp/brujula/internal/students/http/dto"
	studentsUseCase "github.com/brujulapp/brujula/internal/students/usecase"
	customValidation "github.com/brujulapp/brujula/internal/validation"
)

// StudentHandler handles HTTP requests for a student's own profile.
type StudentHandler struct {
	studentUseCase studentsUseCase.StudentUseCase
	logger         *slog.Logger
}

// NewStudentHandler creates a new student handler with required dependencies.
func NewStudentHandler(
	studentUseCase studentsUseCase.StudentUseCase,
	logger *slog.Logger,
) *StudentHandler {
	return &StudentHandler{
		studentUseCase: studentUseCase,
		logger:         logger,
	}
}

// GetProfileHandler returns the authenticated student's profile.
// GET /v1/students/me - Requires student authentication.
func (h *StudentHandler) GetProfileHandler(c *gin.Context) {
	studentID, ok := authHTTP.StudentID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	student, err := h.studentUseCase.Get(c.Request.Context(), studentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStudentToResponse(student))
}

// UpdateProfileHandler replaces the editable profile fields.
// PUT /v1/students/me - Requires student authentication.
func (h *StudentHandler) UpdateProfileHandler(c *gin.Context) {
	studentID, ok := authHTTP.StudentID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	student, err := h.studentUseCase.UpdateProfile(c.Request.Context(), studentID, studentsUseCase.UpdateStudentParams{
		FullName: req.FullName,
		Career:   req.Career,
		Semester: req.Semester,
		Stage:    diagnosticsDomain.Stage(req.Stage),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStudentToResponse(student))
}

// SetMatriculaHandler encrypts and stores the student's matriculation id.
// PUT /v1/students/me/matricula - Requires student authentication.
// The plaintext is encrypted under the current key and never echoed back.
func (h *StudentHandler) SetMatriculaHandler(c *gin.Context) {
	studentID, ok := authHTTP.StudentID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	var req dto.SetMatriculaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.studentUseCase.SetMatricula(c.Request.Context(), studentID, req.Matricula); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

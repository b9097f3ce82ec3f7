package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/brujulapp/brujula/internal/auth/http"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/httputil"
	"github.com/brujulapp/brujula/internal/students/http/dto"
	studentsUseCase "github.com/brujulapp/brujula/internal/students/usecase"
)

// AdminStudentHandler handles the administrator-only student operations.
type AdminStudentHandler struct {
	adminUseCase studentsUseCase.AdminStudentUseCase
	logger       *slog.Logger
}

// NewAdminStudentHandler creates a new admin student handler with required
// dependencies.
func NewAdminStudentHandler(
	adminUseCase studentsUseCase.AdminStudentUseCase,
	logger *slog.Logger,
) *AdminStudentHandler {
	return &AdminStudentHandler{
		adminUseCase: adminUseCase,
		logger:       logger,
	}
}

// ListStudentsHandler lists students, newest first.
// GET /v1/admin/students - Requires admin authentication.
func (h *AdminStudentHandler) ListStudentsHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	students, err := h.adminUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStudentsToListResponse(students))
}

// RevealMatriculaHandler decrypts a student's matriculation id.
// POST /v1/admin/students/:id/matricula/reveal - Requires admin
// authentication. The reveal is rate limited per (admin, student, ip) and
// audit logged before decryption.
func (h *AdminStudentHandler) RevealMatriculaHandler(c *gin.Context) {
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}

	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid student id: must be a valid UUID"),
			h.logger)
		return
	}

	matricula, err := h.adminUseCase.RevealMatricula(c.Request.Context(), actor, studentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RevealMatriculaResponse{
		StudentID: studentID.String(),
		Matricula: matricula,
	})
}

// ExportStudentsHandler streams the student report as CSV.
// GET /v1/admin/reports/students - Requires admin authentication. The
// export is audit logged and never contains decrypted matriculation ids.
func (h *AdminStudentHandler) ExportStudentsHandler(c *gin.Context) {
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="students.csv"`)

	if _, err := h.adminUseCase.ExportCSV(c.Request.Context(), actor, c.Writer); err != nil {
		// Headers may already be written; log instead of switching to JSON.
		h.logger.Error("student export failed", slog.Any("error", err))
	}
}

// actorFromContext builds the audited actor identity from the
// authenticated admin account and request metadata.
func (h *AdminStudentHandler) actorFromContext(c *gin.Context) (studentsUseCase.Actor, bool) {
	account, ok := authHTTP.GetAccount(c.Request.Context())
	if !ok || account == nil {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return studentsUseCase.Actor{}, false
	}

	// The request id header is generated as a UUID; fall back to Nil on
	// anything else.
	requestID, err := uuid.Parse(requestid.Get(c))
	if err != nil {
		requestID = uuid.Nil
	}

	return studentsUseCase.Actor{
		RequestID: requestID,
		ID:        account.ID,
		Email:     account.Email,
		Role:      string(account.Role),
		IP:        c.ClientIP(),
	}, true
}

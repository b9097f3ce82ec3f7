// Package http provides HTTP handlers for personal goals and the goal
// template catalog.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/brujulapp/brujula/internal/auth/http"
	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/goals/domain"
	"github.com/brujulapp/brujula/internal/goals/http/dto"
	goalsUseCase "github.com/brujulapp/brujula/internal/goals/usecase"
	"github.com/brujulapp/brujula/internal/httputil"
	customValidation "github.com/brujulapp/brujula/internal/validation"
)

// GoalHandler handles HTTP requests for personal goals.
type GoalHandler struct {
	goalUseCase           goalsUseCase.GoalUseCase
	recommendationUseCase goalsUseCase.RecommendationUseCase
	logger                *slog.Logger
}

// NewGoalHandler creates a new goal handler with required dependencies.
func NewGoalHandler(
	goalUseCase goalsUseCase.GoalUseCase,
	recommendationUseCase goalsUseCase.RecommendationUseCase,
	logger *slog.Logger,
) *GoalHandler {
	return &GoalHandler{
		goalUseCase:           goalUseCase,
		recommendationUseCase: recommendationUseCase,
		logger:                logger,
	}
}

// ListTemplatesHandler returns the goal template catalog for a stage.
// GET /v1/goal-templates?stage=<stage> - Requires student authentication.
func (h *GoalHandler) ListTemplatesHandler(c *gin.Context) {
	stage := diagnosticsDomain.Stage(c.Query("stage"))

	templates, err := h.recommendationUseCase.TemplatesForStage(stage)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTemplatesToListResponse(templates))
}

// CreateGoalHandler creates a new personal goal for the student.
// POST /v1/goals - Requires student authentication.
func (h *GoalHandler) CreateGoalHandler(c *gin.Context) {
	studentID, ok := authHTTP.StudentID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	goal, err := h.goalUseCase.Create(c.Request.Context(), goalsUseCase.CreateGoalParams{
		StudentID:  studentID,
		TemplateID: req.TemplateID,
		Stage:      diagnosticsDomain.Stage(req.Stage),
		Dimension:  req.Dimension,
		Category:   req.Category,
		Specific:   req.Specific,
		Measurable: req.Measurable,
		Achievable: req.Achievable,
		Relevant:   req.Relevant,
		TimeBound:  req.TimeBound,
		Evaluated:  req.Evaluated,
		Readjusted: req.Readjusted,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapGoalToResponse(goal))
}

// GetGoalHandler retrieves one of the student's goals.
// GET /v1/goals/:id - Requires student authentication.
func (h *GoalHandler) GetGoalHandler(c *gin.Context) {
	studentID, goalID, ok := h.ownedGoalIDs(c)
	if !ok {
		return
	}

	goal, err := h.goalUseCase.Get(c.Request.Context(), studentID, goalID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGoalToResponse(goal))
}

// ListGoalsHandler lists the student's goals, newest first.
// GET /v1/goals - Requires student authentication.
func (h *GoalHandler) ListGoalsHandler(c *gin.Context) {
	studentID, ok := authHTTP.StudentID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	goals, err := h.goalUseCase.List(c.Request.Context(), studentID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGoalsToListResponse(goals))
}

// UpdateGoalHandler replaces the SMARTER fields of a goal.
// PUT /v1/goals/:id - Requires student authentication.
func (h *GoalHandler) UpdateGoalHandler(c *gin.Context) {
	studentID, goalID, ok := h.ownedGoalIDs(c)
	if !ok {
		return
	}

	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	goal, err := h.goalUseCase.Update(c.Request.Context(), studentID, goalID, goalsUseCase.UpdateGoalParams{
		Specific:   req.Specific,
		Measurable: req.Measurable,
		Achievable: req.Achievable,
		Relevant:   req.Relevant,
		TimeBound:  req.TimeBound,
		Evaluated:  req.Evaluated,
		Readjusted: req.Readjusted,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGoalToResponse(goal))
}

// UpdateGoalStatusHandler transitions a goal's lifecycle status.
// PUT /v1/goals/:id/status - Requires student authentication.
func (h *GoalHandler) UpdateGoalStatusHandler(c *gin.Context) {
	studentID, goalID, ok := h.ownedGoalIDs(c)
	if !ok {
		return
	}

	var req dto.UpdateGoalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	goal, err := h.goalUseCase.UpdateStatus(
		c.Request.Context(),
		studentID,
		goalID,
		domain.GoalStatus(req.Status),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapGoalToResponse(goal))
}

// ownedGoalIDs resolves the authenticated student and the :id path
// parameter; writes the error response itself when either fails.
func (h *GoalHandler) ownedGoalIDs(c *gin.Context) (studentID, goalID uuid.UUID, ok bool) {
	studentID, hasStudent := authHTTP.StudentID(c.Request.Context())
	if !hasStudent {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return uuid.Nil, uuid.Nil, false
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid goal id: must be a valid UUID"),
			h.logger)
		return uuid.Nil, uuid.Nil, false
	}

	return studentID, goalID, true
}

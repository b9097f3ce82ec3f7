// Package usecase implements business logic for personal goals and goal
// recommendations.
package usecase

import (
	"context"

	"github.com/google/uuid"

	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	"github.com/brujulapp/brujula/internal/goals/domain"
)

// GoalRepository persists personal goals.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, offset, limit int) ([]*domain.Goal, error)
	Update(ctx context.Context, goal *domain.Goal) error
	CountByStudent(ctx context.Context, studentID uuid.UUID) (int, error)
}

// CreateGoalParams carries the caller-supplied fields of a new goal.
type CreateGoalParams struct {
	StudentID  uuid.UUID
	TemplateID string
	Stage      diagnosticsDomain.Stage
	Dimension  string
	Category   string
	Specific   string
	Measurable string
	Achievable string
	Relevant   string
	TimeBound  string
	Evaluated  string
	Readjusted string
}

// UpdateGoalParams carries the editable SMARTER fields of a goal.
type UpdateGoalParams struct {
	Specific   string
	Measurable string
	Achievable string
	Relevant   string
	TimeBound  string
	Evaluated  string
	Readjusted string
}

// GoalUseCase manages a student's personal SMARTER goals. Every operation
// scopes access to the owning student; a goal owned by someone else is
// indistinguishable from a missing one.
type GoalUseCase interface {
	Create(ctx context.Context, params CreateGoalParams) (*domain.Goal, error)
	Get(ctx context.Context, studentID, goalID uuid.UUID) (*domain.Goal, error)
	List(ctx context.Context, studentID uuid.UUID, offset, limit int) ([]*domain.Goal, error)
	Update(ctx context.Context, studentID, goalID uuid.UUID, params UpdateGoalParams) (*domain.Goal, error)
	UpdateStatus(ctx context.Context, studentID, goalID uuid.UUID, status domain.GoalStatus) (*domain.Goal, error)
}

// RecommendationUseCase ranks catalog templates for a student's stage
// against their diagnostic answers.
type RecommendationUseCase interface {
	Recommend(stage diagnosticsDomain.Stage, answers []diagnosticsDomain.Answer, limit int) ([]domain.Template, error)
	TemplatesForStage(stage diagnosticsDomain.Stage) ([]domain.Template, error)
}

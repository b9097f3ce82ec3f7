package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/goals/domain"
)

// goalUseCase implements GoalUseCase.
type goalUseCase struct {
	goalRepo GoalRepository
}

// NewGoalUseCase creates a new GoalUseCase with the provided dependencies.
func NewGoalUseCase(goalRepo GoalRepository) GoalUseCase {
	return &goalUseCase{goalRepo: goalRepo}
}

// Create persists a new goal in active status with a generated UUIDv7 id.
func (g *goalUseCase) Create(ctx context.Context, params CreateGoalParams) (*domain.Goal, error) {
	now := time.Now().UTC()
	goal := &domain.Goal{
		ID:         uuid.Must(uuid.NewV7()),
		StudentID:  params.StudentID,
		TemplateID: params.TemplateID,
		Stage:      params.Stage,
		Dimension:  params.Dimension,
		Category:   params.Category,
		Specific:   params.Specific,
		Measurable: params.Measurable,
		Achievable: params.Achievable,
		Relevant:   params.Relevant,
		TimeBound:  params.TimeBound,
		Evaluated:  params.Evaluated,
		Readjusted: params.Readjusted,
		Status:     domain.GoalStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := g.goalRepo.Create(ctx, goal); err != nil {
		return nil, apperrors.Wrap(err, "failed to create goal")
	}

	return goal, nil
}

// Get retrieves a goal owned by the student.
func (g *goalUseCase) Get(ctx context.Context, studentID, goalID uuid.UUID) (*domain.Goal, error) {
	return g.getOwned(ctx, studentID, goalID)
}

// List retrieves a student's goals ordered newest first.
func (g *goalUseCase) List(
	ctx context.Context,
	studentID uuid.UUID,
	offset, limit int,
) ([]*domain.Goal, error) {
	goals, err := g.goalRepo.ListByStudent(ctx, studentID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list goals")
	}
	return goals, nil
}

// Update replaces the SMARTER fields of a goal owned by the student.
func (g *goalUseCase) Update(
	ctx context.Context,
	studentID, goalID uuid.UUID,
	params UpdateGoalParams,
) (*domain.Goal, error) {
	goal, err := g.getOwned(ctx, studentID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Specific = params.Specific
	goal.Measurable = params.Measurable
	goal.Achievable = params.Achievable
	goal.Relevant = params.Relevant
	goal.TimeBound = params.TimeBound
	goal.Evaluated = params.Evaluated
	goal.Readjusted = params.Readjusted
	goal.UpdatedAt = time.Now().UTC()

	if err := g.goalRepo.Update(ctx, goal); err != nil {
		return nil, apperrors.Wrap(err, "failed to update goal")
	}

	return goal, nil
}

// UpdateStatus applies a lifecycle transition to a goal owned by the
// student. Disallowed transitions fail with ErrInvalidStatusTransition.
func (g *goalUseCase) UpdateStatus(
	ctx context.Context,
	studentID, goalID uuid.UUID,
	status domain.GoalStatus,
) (*domain.Goal, error) {
	if !status.IsValid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown goal status")
	}

	goal, err := g.getOwned(ctx, studentID, goalID)
	if err != nil {
		return nil, err
	}

	if !goal.Status.CanTransitionTo(status) {
		return nil, apperrors.Wrap(
			domain.ErrInvalidStatusTransition,
			string(goal.Status)+" -> "+string(status),
		)
	}

	goal.Status = status
	goal.UpdatedAt = time.Now().UTC()

	if err := g.goalRepo.Update(ctx, goal); err != nil {
		return nil, apperrors.Wrap(err, "failed to update goal status")
	}

	return goal, nil
}

// getOwned fetches a goal and checks ownership. Goals owned by another
// student surface as not found.
func (g *goalUseCase) getOwned(ctx context.Context, studentID, goalID uuid.UUID) (*domain.Goal, error) {
	goal, err := g.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.StudentID != studentID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

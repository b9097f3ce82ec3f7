package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/goals/domain"
)

// mockGoalRepository is a hand-written testify mock for GoalRepository.
type mockGoalRepository struct {
	mock.Mock
}

func (m *mockGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *mockGoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *mockGoalRepository) ListByStudent(
	ctx context.Context,
	studentID uuid.UUID,
	offset, limit int,
) ([]*domain.Goal, error) {
	args := m.Called(ctx, studentID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

func (m *mockGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *mockGoalRepository) CountByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	args := m.Called(ctx, studentID)
	return args.Int(0), args.Error(1)
}

func createParams(studentID uuid.UUID) CreateGoalParams {
	return CreateGoalParams{
		StudentID:  studentID,
		TemplateID: "exp-carrera-01",
		Stage:      diagnosticsDomain.StageExploracion,
		Dimension:  "Ocupacional",
		Category:   "carrera",
		Specific:   "Entrevistar a tres profesionistas de mi carrera",
		Measurable: "Tres entrevistas documentadas",
		Achievable: "Una entrevista al mes",
		Relevant:   "Valida mi elección vocacional",
		TimeBound:  "Antes de terminar el semestre",
	}
}

func TestGoalUseCase_Create(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		repo := &mockGoalRepository{}
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Goal")).Return(nil).Once()

		uc := NewGoalUseCase(repo)
		goal, err := uc.Create(ctx, createParams(studentID))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, goal.ID)
		assert.Equal(t, studentID, goal.StudentID)
		assert.Equal(t, domain.GoalStatusActive, goal.Status)
		assert.False(t, goal.CreatedAt.IsZero())
		repo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		repo := &mockGoalRepository{}
		repo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

		uc := NewGoalUseCase(repo)
		_, err := uc.Create(ctx, createParams(studentID))

		assert.ErrorContains(t, err, "failed to create goal")
	})
}

func TestGoalUseCase_Get(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.Must(uuid.NewV7())
	goalID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		repo := &mockGoalRepository{}
		repo.On("GetByID", ctx, goalID).
			Return(&domain.Goal{ID: goalID, StudentID: studentID}, nil).
			Once()

		uc := NewGoalUseCase(repo)
		goal, err := uc.Get(ctx, studentID, goalID)

		require.NoError(t, err)
		assert.Equal(t, goalID, goal.ID)
	})

	t.Run("OtherStudentsGoalIsNotFound", func(t *testing.T) {
		repo := &mockGoalRepository{}
		repo.On("GetByID", ctx, goalID).
			Return(&domain.Goal{ID: goalID, StudentID: uuid.Must(uuid.NewV7())}, nil).
			Once()

		uc := NewGoalUseCase(repo)
		_, err := uc.Get(ctx, studentID, goalID)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestGoalUseCase_Update(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.Must(uuid.NewV7())
	goalID := uuid.Must(uuid.NewV7())

	repo := &mockGoalRepository{}
	repo.On("GetByID", ctx, goalID).
		Return(&domain.Goal{ID: goalID, StudentID: studentID, Status: domain.GoalStatusActive}, nil).
		Once()
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Goal")).Return(nil).Once()

	uc := NewGoalUseCase(repo)
	goal, err := uc.Update(ctx, studentID, goalID, UpdateGoalParams{
		Specific:   "Meta ajustada",
		Measurable: "Nuevo indicador",
	})

	require.NoError(t, err)
	assert.Equal(t, "Meta ajustada", goal.Specific)
	assert.Equal(t, "Nuevo indicador", goal.Measurable)
	repo.AssertExpectations(t)
}

func TestGoalUseCase_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.Must(uuid.NewV7())
	goalID := uuid.Must(uuid.NewV7())

	newRepo := func(status domain.GoalStatus) *mockGoalRepository {
		repo := &mockGoalRepository{}
		repo.On("GetByID", ctx, goalID).
			Return(&domain.Goal{ID: goalID, StudentID: studentID, Status: status}, nil).
			Once()
		return repo
	}

	t.Run("ActiveToCompleted", func(t *testing.T) {
		repo := newRepo(domain.GoalStatusActive)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Goal")).Return(nil).Once()

		uc := NewGoalUseCase(repo)
		goal, err := uc.UpdateStatus(ctx, studentID, goalID, domain.GoalStatusCompleted)

		require.NoError(t, err)
		assert.Equal(t, domain.GoalStatusCompleted, goal.Status)
	})

	t.Run("ArchivedCanBeReactivated", func(t *testing.T) {
		repo := newRepo(domain.GoalStatusArchived)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Goal")).Return(nil).Once()

		uc := NewGoalUseCase(repo)
		goal, err := uc.UpdateStatus(ctx, studentID, goalID, domain.GoalStatusActive)

		require.NoError(t, err)
		assert.Equal(t, domain.GoalStatusActive, goal.Status)
	})

	t.Run("CompletedIsTerminal", func(t *testing.T) {
		repo := newRepo(domain.GoalStatusCompleted)

		uc := NewGoalUseCase(repo)
		_, err := uc.UpdateStatus(ctx, studentID, goalID, domain.GoalStatusActive)

		assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		uc := NewGoalUseCase(&mockGoalRepository{})
		_, err := uc.UpdateStatus(ctx, studentID, goalID, domain.GoalStatus("paused"))

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

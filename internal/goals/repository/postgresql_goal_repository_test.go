package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	"github.com/brujulapp/brujula/internal/goals/domain"
)

var goalColumns = []string{
	"id", "student_id", "template_id", "stage", "dimension", "category",
	"specific", "measurable", "achievable", "relevant", "time_bound", "evaluated", "readjusted",
	"status", "created_at", "updated_at",
}

func newGoal() *domain.Goal {
	now := time.Now().UTC()
	return &domain.Goal{
		ID:         uuid.Must(uuid.NewV7()),
		StudentID:  uuid.Must(uuid.NewV7()),
		TemplateID: "exp-carrera-01",
		Stage:      diagnosticsDomain.StageExploracion,
		Dimension:  "Ocupacional",
		Category:   "carrera",
		Specific:   "Entrevistar a tres profesionistas",
		Measurable: "Tres entrevistas documentadas",
		Achievable: "Una al mes",
		Relevant:   "Valida mi vocación",
		TimeBound:  "Este semestre",
		Status:     domain.GoalStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func goalRow(goal *domain.Goal) *sqlmock.Rows {
	return sqlmock.NewRows(goalColumns).AddRow(
		goal.ID.String(),
		goal.StudentID.String(),
		goal.TemplateID,
		string(goal.Stage),
		goal.Dimension,
		goal.Category,
		goal.Specific,
		goal.Measurable,
		goal.Achievable,
		goal.Relevant,
		goal.TimeBound,
		goal.Evaluated,
		goal.Readjusted,
		string(goal.Status),
		goal.CreatedAt,
		goal.UpdatedAt,
	)
}

func TestPostgreSQLGoalRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	goal := newGoal()
	mock.ExpectExec("INSERT INTO goals").
		WithArgs(
			goal.ID,
			goal.StudentID,
			goal.TemplateID,
			string(goal.Stage),
			goal.Dimension,
			goal.Category,
			goal.Specific,
			goal.Measurable,
			goal.Achievable,
			goal.Relevant,
			goal.TimeBound,
			goal.Evaluated,
			goal.Readjusted,
			string(goal.Status),
			goal.CreatedAt,
			goal.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgreSQLGoalRepository(db)
	require.NoError(t, repo.Create(context.Background(), goal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLGoalRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		goal := newGoal()
		mock.ExpectQuery("FROM goals WHERE id").
			WithArgs(goal.ID).
			WillReturnRows(goalRow(goal))

		repo := NewPostgreSQLGoalRepository(db)
		found, err := repo.GetByID(ctx, goal.ID)

		require.NoError(t, err)
		assert.Equal(t, goal.ID, found.ID)
		assert.Equal(t, goal.Stage, found.Stage)
		assert.Equal(t, goal.Status, found.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		id := uuid.Must(uuid.NewV7())
		mock.ExpectQuery("FROM goals WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(goalColumns))

		repo := NewPostgreSQLGoalRepository(db)
		_, err = repo.GetByID(ctx, id)

		assert.ErrorIs(t, err, domain.ErrGoalNotFound)
	})
}

func TestPostgreSQLGoalRepository_ListByStudent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	goal := newGoal()
	mock.ExpectQuery("FROM goals WHERE student_id").
		WithArgs(goal.StudentID, 10, 0).
		WillReturnRows(goalRow(goal))

	repo := NewPostgreSQLGoalRepository(db)
	goals, err := repo.ListByStudent(context.Background(), goal.StudentID, 0, 10)

	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, goal.ID, goals[0].ID)
}

func TestPostgreSQLGoalRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		goal := newGoal()
		mock.ExpectExec("UPDATE goals").
			WithArgs(
				goal.Specific,
				goal.Measurable,
				goal.Achievable,
				goal.Relevant,
				goal.TimeBound,
				goal.Evaluated,
				goal.Readjusted,
				string(goal.Status),
				goal.UpdatedAt,
				goal.ID,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLGoalRepository(db)
		require.NoError(t, repo.Update(ctx, goal))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingGoal", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		mock.ExpectExec("UPDATE goals").WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgreSQLGoalRepository(db)
		err = repo.Update(ctx, newGoal())

		assert.ErrorIs(t, err, domain.ErrGoalNotFound)
	})
}

func TestPostgreSQLGoalRepository_CountByStudent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	studentID := uuid.Must(uuid.NewV7())
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(studentID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	repo := NewPostgreSQLGoalRepository(db)
	count, err := repo.CountByStudent(context.Background(), studentID)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

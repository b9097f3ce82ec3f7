// Package repository provides goal persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/brujulapp/brujula/internal/database"
	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/goals/domain"
)

// PostgreSQLGoalRepository implements goal persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLGoalRepository struct {
	db *sql.DB
}

// NewPostgreSQLGoalRepository creates a new PostgreSQL goal repository.
func NewPostgreSQLGoalRepository(db *sql.DB) *PostgreSQLGoalRepository {
	return &PostgreSQLGoalRepository{db: db}
}

// Create inserts a new goal.
func (p *PostgreSQLGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO goals
			  (id, student_id, template_id, stage, dimension, category,
			   specific, measurable, achievable, relevant, time_bound, evaluated, readjusted,
			   status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := querier.ExecContext(
		ctx,
		query,
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
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create goal")
	}

	return nil
}

// GetByID retrieves a goal by id. Returns ErrGoalNotFound if absent.
func (p *PostgreSQLGoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	querier := database.GetTx(ctx, p.db)

	query := goalSelectColumns + ` FROM goals WHERE id = $1`

	row := querier.QueryRowContext(ctx, query, id)
	goal, err := scanGoalRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get goal")
	}

	return goal, nil
}

// ListByStudent retrieves a student's goals ordered newest first.
// Returns an empty slice if the student has no goals.
func (p *PostgreSQLGoalRepository) ListByStudent(
	ctx context.Context,
	studentID uuid.UUID,
	offset, limit int,
) ([]*domain.Goal, error) {
	querier := database.GetTx(ctx, p.db)

	query := goalSelectColumns + ` FROM goals WHERE student_id = $1
			  ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, studentID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list goals")
	}
	defer func() {
		_ = rows.Close()
	}()

	goals := make([]*domain.Goal, 0)
	for rows.Next() {
		goal, err := scanGoalRow(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan goal")
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate goals")
	}

	return goals, nil
}

// Update replaces the mutable fields of a goal.
func (p *PostgreSQLGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE goals
			  SET specific = $1, measurable = $2, achievable = $3, relevant = $4,
			      time_bound = $5, evaluated = $6, readjusted = $7,
			      status = $8, updated_at = $9
			  WHERE id = $10`

	result, err := querier.ExecContext(
		ctx,
		query,
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
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update goal")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check update result")
	}
	if affected == 0 {
		return domain.ErrGoalNotFound
	}

	return nil
}

// CountByStudent returns the number of goals a student has.
func (p *PostgreSQLGoalRepository) CountByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, p.db)

	var count int
	err := querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM goals WHERE student_id = $1`,
		studentID,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count goals")
	}

	return count, nil
}

const goalSelectColumns = `SELECT id, student_id, template_id, stage, dimension, category,
			   specific, measurable, achievable, relevant, time_bound, evaluated, readjusted,
			   status, created_at, updated_at`

// scanGoalRow maps one row to a domain goal; works for both QueryRow and
// rows iteration.
func scanGoalRow(scan func(dest ...any) error) (*domain.Goal, error) {
	var goal domain.Goal
	var stage, status string

	err := scan(
		&goal.ID,
		&goal.StudentID,
		&goal.TemplateID,
		&stage,
		&goal.Dimension,
		&goal.Category,
		&goal.Specific,
		&goal.Measurable,
		&goal.Achievable,
		&goal.Relevant,
		&goal.TimeBound,
		&goal.Evaluated,
		&goal.Readjusted,
		&status,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	goal.Stage = diagnosticsDomain.Stage(stage)
	goal.Status = domain.GoalStatus(status)
	return &goal, nil
}

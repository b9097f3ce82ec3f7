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

// MySQLGoalRepository implements goal persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLGoalRepository struct {
	db *sql.DB
}

// NewMySQLGoalRepository creates a new MySQL goal repository.
func NewMySQLGoalRepository(db *sql.DB) *MySQLGoalRepository {
	return &MySQLGoalRepository{db: db}
}

// Create inserts a new goal using BINARY(16) for UUIDs.
func (m *MySQLGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	querier := database.GetTx(ctx, m.db)

	id, err := goal.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal goal id")
	}

	studentID, err := goal.StudentID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal goal student_id")
	}

	query := `INSERT INTO goals
			  (id, student_id, template_id, stage, dimension, category,
			   specific, measurable, achievable, relevant, time_bound, evaluated, readjusted,
			   status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		studentID,
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
func (m *MySQLGoalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal goal id")
	}

	query := goalSelectColumns + ` FROM goals WHERE id = ?`

	row := querier.QueryRowContext(ctx, query, idBinary)
	goal, err := scanMySQLGoalRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get goal")
	}

	return goal, nil
}

// ListByStudent retrieves a student's goals ordered newest first.
func (m *MySQLGoalRepository) ListByStudent(
	ctx context.Context,
	studentID uuid.UUID,
	offset, limit int,
) ([]*domain.Goal, error) {
	querier := database.GetTx(ctx, m.db)

	studentIDBinary, err := studentID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal goal student_id")
	}

	query := goalSelectColumns + ` FROM goals WHERE student_id = ?
			  ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, studentIDBinary, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list goals")
	}
	defer func() {
		_ = rows.Close()
	}()

	goals := make([]*domain.Goal, 0)
	for rows.Next() {
		goal, err := scanMySQLGoalRow(rows.Scan)
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
func (m *MySQLGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	querier := database.GetTx(ctx, m.db)

	id, err := goal.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal goal id")
	}

	query := `UPDATE goals
			  SET specific = ?, measurable = ?, achievable = ?, relevant = ?,
			      time_bound = ?, evaluated = ?, readjusted = ?,
			      status = ?, updated_at = ?
			  WHERE id = ?`

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
		id,
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
func (m *MySQLGoalRepository) CountByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, m.db)

	studentIDBinary, err := studentID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal goal student_id")
	}

	var count int
	err = querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM goals WHERE student_id = ?`,
		studentIDBinary,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count goals")
	}

	return count, nil
}

// scanMySQLGoalRow maps one row to a domain goal, unmarshaling BINARY(16)
// UUID columns.
func scanMySQLGoalRow(scan func(dest ...any) error) (*domain.Goal, error) {
	var goal domain.Goal
	var idBinary, studentIDBinary []byte
	var stage, status string

	err := scan(
		&idBinary,
		&studentIDBinary,
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

	if err := goal.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, err
	}
	if err := goal.StudentID.UnmarshalBinary(studentIDBinary); err != nil {
		return nil, err
	}

	goal.Stage = diagnosticsDomain.Stage(stage)
	goal.Status = domain.GoalStatus(status)
	return &goal, nil
}

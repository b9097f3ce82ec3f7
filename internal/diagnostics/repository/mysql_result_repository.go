package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/brujulapp/brujula/internal/database"
	"github.com/brujulapp/brujula/internal/diagnostics/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

// MySQLResultRepository implements diagnostic result persistence for MySQL.
// Uses BINARY(16) for UUID storage; answers are stored as a JSON column.
type MySQLResultRepository struct {
	db *sql.DB
}

// NewMySQLResultRepository creates a new MySQL result repository.
func NewMySQLResultRepository(db *sql.DB) *MySQLResultRepository {
	return &MySQLResultRepository{db: db}
}

// Create inserts a new diagnostic result.
func (m *MySQLResultRepository) Create(ctx context.Context, result *domain.Result) error {
	querier := database.GetTx(ctx, m.db)

	answersJSON, err := json.Marshal(result.Answers)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal diagnostic answers")
	}

	id, err := result.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal diagnostic result id")
	}

	studentID, err := result.StudentID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal diagnostic result student_id")
	}

	query := `INSERT INTO diagnostic_results (id, student_id, stage, answers, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		studentID,
		string(result.Stage),
		answersJSON,
		result.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create diagnostic result")
	}

	return nil
}

// ListByStudent retrieves a student's diagnostic results ordered newest
// first.
func (m *MySQLResultRepository) ListByStudent(
	ctx context.Context,
	studentID uuid.UUID,
	offset, limit int,
) ([]*domain.Result, error) {
	querier := database.GetTx(ctx, m.db)

	studentIDBinary, err := studentID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal diagnostic result student_id")
	}

	query := `SELECT id, student_id, stage, answers, created_at FROM diagnostic_results
			  WHERE student_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, studentIDBinary, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list diagnostic results")
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]*domain.Result, 0)
	for rows.Next() {
		var result domain.Result
		var idBinary, resultStudentID []byte
		var stage string
		var answersJSON []byte

		err := rows.Scan(&idBinary, &resultStudentID, &stage, &answersJSON, &result.CreatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan diagnostic result")
		}

		if err := result.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal diagnostic result id")
		}
		if err := result.StudentID.UnmarshalBinary(resultStudentID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal diagnostic result student_id")
		}
		if err := json.Unmarshal(answersJSON, &result.Answers); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal diagnostic answers")
		}

		result.Stage = domain.Stage(stage)
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate diagnostic results")
	}

	return results, nil
}

// Package repository provides diagnostic result persistence implementations.
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

// PostgreSQLResultRepository implements diagnostic result persistence for
// PostgreSQL. Answers are stored as a JSON column.
type PostgreSQLResultRepository struct {
	db *sql.DB
}

// NewPostgreSQLResultRepository creates a new PostgreSQL result repository.
func NewPostgreSQLResultRepository(db *sql.DB) *PostgreSQLResultRepository {
	return &PostgreSQLResultRepository{db: db}
}

// Create inserts a new diagnostic result.
func (p *PostgreSQLResultRepository) Create(ctx context.Context, result *domain.Result) error {
	querier := database.GetTx(ctx, p.db)

	answersJSON, err := json.Marshal(result.Answers)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal diagnostic answers")
	}

	query := `INSERT INTO diagnostic_results (id, student_id, stage, answers, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err = querier.ExecContext(
		ctx,
		query,
		result.ID,
		result.StudentID,
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
// first. Returns an empty slice if none exist.
func (p *PostgreSQLResultRepository) ListByStudent(
	ctx context.Context,
	studentID uuid.UUID,
	offset, limit int,
) ([]*domain.Result, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, student_id, stage, answers, created_at FROM diagnostic_results
			  WHERE student_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, studentID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list diagnostic results")
	}
	defer func() {
		_ = rows.Close()
	}()

	results := make([]*domain.Result, 0)
	for rows.Next() {
		var result domain.Result
		var stage string
		var answersJSON []byte

		err := rows.Scan(&result.ID, &result.StudentID, &stage, &answersJSON, &result.CreatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan diagnostic result")
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

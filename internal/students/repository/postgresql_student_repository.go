// Package repository provides student persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	cryptoUseCase "github.com/brujulapp/brujula/internal/crypto/usecase"
	"github.com/brujulapp/brujula/internal/database"
	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/students/domain"
)

// PostgreSQLStudentRepository implements student persistence for
// PostgreSQL. It also implements the encrypted record interface consumed
// by the re-encryption sweep.
type PostgreSQLStudentRepository struct {
	db *sql.DB
}

// NewPostgreSQLStudentRepository creates a new PostgreSQL student repository.
func NewPostgreSQLStudentRepository(db *sql.DB) *PostgreSQLStudentRepository {
	return &PostgreSQLStudentRepository{db: db}
}

// Create inserts a new student. Duplicate emails fail with
// ErrStudentAlreadyExists.
func (p *PostgreSQLStudentRepository) Create(ctx context.Context, student *domain.Student) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO students (id, email, full_name, career, semester, stage, matricula_payload, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		student.ID,
		student.Email,
		student.FullName,
		student.Career,
		student.Semester,
		string(student.Stage),
		student.MatriculaPayload,
		student.CreatedAt,
		student.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrStudentAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create student")
	}

	return nil
}

// GetByID retrieves a student by id. Returns ErrStudentNotFound if absent.
func (p *PostgreSQLStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	querier := database.GetTx(ctx, p.db)

	query := studentSelectColumns + ` FROM students WHERE id = $1`

	row := querier.QueryRowContext(ctx, query, id)
	student, err := scanStudentRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get student")
	}

	return student, nil
}

// GetByEmail retrieves a student by email. Returns ErrStudentNotFound if
// absent.
func (p *PostgreSQLStudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	querier := database.GetTx(ctx, p.db)

	query := studentSelectColumns + ` FROM students WHERE email = $1`

	row := querier.QueryRowContext(ctx, query, email)
	student, err := scanStudentRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get student")
	}

	return student, nil
}

// Update replaces the profile fields of a student.
func (p *PostgreSQLStudentRepository) Update(ctx context.Context, student *domain.Student) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE students
			  SET full_name = $1, career = $2, semester = $3, stage = $4, updated_at = $5
			  WHERE id = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		student.FullName,
		student.Career,
		student.Semester,
		string(student.Stage),
		student.UpdatedAt,
		student.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update student")
	}

	return checkAffected(result)
}

// List retrieves students ordered by creation time, newest first.
func (p *PostgreSQLStudentRepository) List(ctx context.Context, offset, limit int) ([]*domain.Student, error) {
	querier := database.GetTx(ctx, p.db)

	query := studentSelectColumns + ` FROM students ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list students")
	}
	defer func() {
		_ = rows.Close()
	}()

	students := make([]*domain.Student, 0)
	for rows.Next() {
		student, err := scanStudentRow(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan student")
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate students")
	}

	return students, nil
}

// SetMatriculaPayload stores a new encrypted matricula envelope.
func (p *PostgreSQLStudentRepository) SetMatriculaPayload(ctx context.Context, id uuid.UUID, payload []byte) error {
	return p.UpdateEncryptedPayload(ctx, id, payload)
}

// ListEncryptedBatch returns one keyset page of students that carry an
// encrypted matricula, ordered by id ascending starting after afterID.
func (p *PostgreSQLStudentRepository) ListEncryptedBatch(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]cryptoUseCase.EncryptedRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, matricula_payload FROM students
			  WHERE matricula_payload IS NOT NULL AND id > $1
			  ORDER BY id ASC LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list encrypted students")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]cryptoUseCase.EncryptedRecord, 0)
	for rows.Next() {
		var record cryptoUseCase.EncryptedRecord
		if err := rows.Scan(&record.ID, &record.Payload); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan encrypted student")
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate encrypted students")
	}

	return records, nil
}

// UpdateEncryptedPayload replaces a student's matricula envelope with a
// wholly new payload.
func (p *PostgreSQLStudentRepository) UpdateEncryptedPayload(ctx context.Context, id uuid.UUID, payload []byte) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE students SET matricula_payload = $1, updated_at = NOW() WHERE id = $2`,
		payload,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update matricula payload")
	}

	return checkAffected(result)
}

// CountByKid counts stored matricula envelopes per key id, reading the kid
// straight from the JSON payload. Used by the keyring-check command.
func (p *PostgreSQLStudentRepository) CountByKid(ctx context.Context) (map[string]int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COALESCE(matricula_payload::jsonb->>'kid', ''), COUNT(*)
			  FROM students WHERE matricula_payload IS NOT NULL
			  GROUP BY 1`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count matriculas by kid")
	}
	defer func() {
		_ = rows.Close()
	}()

	counts := make(map[string]int)
	for rows.Next() {
		var kid string
		var count int
		if err := rows.Scan(&kid, &count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan kid count")
		}
		counts[kid] = count
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate kid counts")
	}

	return counts, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check update result")
	}
	if affected == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

const studentSelectColumns = `SELECT id, email, full_name, career, semester, stage, matricula_payload, created_at, updated_at`

// scanStudentRow maps one row to a domain student; works for both
// QueryRow and rows iteration.
func scanStudentRow(scan func(dest ...any) error) (*domain.Student, error) {
	var student domain.Student
	var stage string

	err := scan(
		&student.ID,
		&student.Email,
		&student.FullName,
		&student.Career,
		&student.Semester,
		&stage,
		&student.MatriculaPayload,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	student.Stage = diagnosticsDomain.Stage(stage)
	return &student, nil
}

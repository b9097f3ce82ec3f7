package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	cryptoUseCase "github.com/brujulapp/brujula/internal/crypto/usecase"
	"github.com/brujulapp/brujula/internal/database"
	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/students/domain"
)

// MySQLStudentRepository implements student persistence for MySQL.
// Uses BINARY(16) for UUID storage. It also implements the encrypted
// record interface consumed by the re-encryption sweep.
type MySQLStudentRepository struct {
	db *sql.DB
}

// NewMySQLStudentRepository creates a new MySQL student repository.
func NewMySQLStudentRepository(db *sql.DB) *MySQLStudentRepository {
	return &MySQLStudentRepository{db: db}
}

// Create inserts a new student. Duplicate emails fail with
// ErrStudentAlreadyExists.
func (m *MySQLStudentRepository) Create(ctx context.Context, student *domain.Student) error {
	querier := database.GetTx(ctx, m.db)

	id, err := student.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal student id")
	}

	query := `INSERT INTO students (id, email, full_name, career, semester, stage, matricula_payload, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return domain.ErrStudentAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create student")
	}

	return nil
}

// GetByID retrieves a student by id. Returns ErrStudentNotFound if absent.
func (m *MySQLStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal student id")
	}

	query := mysqlStudentSelectColumns + ` FROM students WHERE id = ?`

	row := querier.QueryRowContext(ctx, query, idBinary)
	student, err := scanMySQLStudentRow(row.Scan)
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
func (m *MySQLStudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	querier := database.GetTx(ctx, m.db)

	query := mysqlStudentSelectColumns + ` FROM students WHERE email = ?`

	row := querier.QueryRowContext(ctx, query, email)
	student, err := scanMySQLStudentRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get student")
	}

	return student, nil
}

// Update replaces the profile fields of a student.
func (m *MySQLStudentRepository) Update(ctx context.Context, student *domain.Student) error {
	querier := database.GetTx(ctx, m.db)

	id, err := student.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal student id")
	}

	query := `UPDATE students
			  SET full_name = ?, career = ?, semester = ?, stage = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		student.FullName,
		student.Career,
		student.Semester,
		string(student.Stage),
		student.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update student")
	}

	return checkAffected(result)
}

// List retrieves students ordered by creation time, newest first.
func (m *MySQLStudentRepository) List(ctx context.Context, offset, limit int) ([]*domain.Student, error) {
	querier := database.GetTx(ctx, m.db)

	query := mysqlStudentSelectColumns + ` FROM students ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list students")
	}
	defer func() {
		_ = rows.Close()
	}()

	students := make([]*domain.Student, 0)
	for rows.Next() {
		student, err := scanMySQLStudentRow(rows.Scan)
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
func (m *MySQLStudentRepository) SetMatriculaPayload(ctx context.Context, id uuid.UUID, payload []byte) error {
	return m.UpdateEncryptedPayload(ctx, id, payload)
}

// ListEncryptedBatch returns one keyset page of students that carry an
// encrypted matricula, ordered by id ascending starting after afterID.
// UUIDv7 ids are time-ordered, so BINARY(16) comparison preserves the
// keyset ordering.
func (m *MySQLStudentRepository) ListEncryptedBatch(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]cryptoUseCase.EncryptedRecord, error) {
	querier := database.GetTx(ctx, m.db)

	afterBinary, err := afterID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal student id")
	}

	query := `SELECT id, matricula_payload FROM students
			  WHERE matricula_payload IS NOT NULL AND id > ?
			  ORDER BY id ASC LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, afterBinary, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list encrypted students")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]cryptoUseCase.EncryptedRecord, 0)
	for rows.Next() {
		var record cryptoUseCase.EncryptedRecord
		var idBinary []byte
		if err := rows.Scan(&idBinary, &record.Payload); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan encrypted student")
		}
		if err := record.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal student id")
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
func (m *MySQLStudentRepository) UpdateEncryptedPayload(ctx context.Context, id uuid.UUID, payload []byte) error {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal student id")
	}

	result, err := querier.ExecContext(
		ctx,
		`UPDATE students SET matricula_payload = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
		payload,
		idBinary,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update matricula payload")
	}

	return checkAffected(result)
}

// CountByKid counts stored matricula envelopes per key id. Used by the
// keyring-check command.
func (m *MySQLStudentRepository) CountByKid(ctx context.Context) (map[string]int, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COALESCE(JSON_UNQUOTE(JSON_EXTRACT(matricula_payload, '$.kid')), ''), COUNT(*)
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

const mysqlStudentSelectColumns = `SELECT id, email, full_name, career, semester, stage, matricula_payload, created_at, updated_at`

// scanMySQLStudentRow maps one row to a domain student, unmarshaling the
// BINARY(16) UUID column.
func scanMySQLStudentRow(scan func(dest ...any) error) (*domain.Student, error) {
	var student domain.Student
	var idBinary []byte
	var stage string

	err := scan(
		&idBinary,
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

	if err := student.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, err
	}

	student.Stage = diagnosticsDomain.Stage(stage)
	return &student, nil
}

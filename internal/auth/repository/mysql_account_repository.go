package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/brujulapp/brujula/internal/auth/domain"
	"github.com/brujulapp/brujula/internal/database"
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

// MySQLAccountRepository implements account persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLAccountRepository struct {
	db *sql.DB
}

// NewMySQLAccountRepository creates a new MySQL account repository.
func NewMySQLAccountRepository(db *sql.DB) *MySQLAccountRepository {
	return &MySQLAccountRepository{db: db}
}

// Create inserts a new account. Duplicate emails fail with
// ErrAccountAlreadyExists.
func (m *MySQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, m.db)

	id, err := account.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}

	var studentID []byte
	if account.StudentID != nil {
		studentID, err = account.StudentID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal student id")
		}
	}

	query := `INSERT INTO accounts (id, email, password_hash, role, student_id, is_active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		studentID,
		account.IsActive,
		account.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return domain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}

	return nil
}

// GetByID retrieves an account by id. Returns ErrAccountNotFound if absent.
func (m *MySQLAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal account id")
	}

	query := mysqlAccountSelectColumns + ` FROM accounts WHERE id = ?`

	row := querier.QueryRowContext(ctx, query, idBinary)
	account, err := scanMySQLAccountRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	return account, nil
}

// GetByEmail retrieves an account by email. Returns ErrAccountNotFound if
// absent.
func (m *MySQLAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	querier := database.GetTx(ctx, m.db)

	query := mysqlAccountSelectColumns + ` FROM accounts WHERE email = ?`

	row := querier.QueryRowContext(ctx, query, email)
	account, err := scanMySQLAccountRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	return account, nil
}

const mysqlAccountSelectColumns = `SELECT id, email, password_hash, role, student_id, is_active, created_at`

// scanMySQLAccountRow maps one row to a domain account, converting
// BINARY(16) ids back to UUIDs.
func scanMySQLAccountRow(scan func(dest ...any) error) (*domain.Account, error) {
	var account domain.Account
	var role string
	var idBinary, studentIDBinary []byte

	err := scan(
		&idBinary,
		&account.Email,
		&account.PasswordHash,
		&role,
		&studentIDBinary,
		&account.IsActive,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := account.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal account id")
	}
	if len(studentIDBinary) > 0 {
		var studentID uuid.UUID
		if err := studentID.UnmarshalBinary(studentIDBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal student id")
		}
		account.StudentID = &studentID
	}

	account.Role = domain.Role(role)
	return &account, nil
}

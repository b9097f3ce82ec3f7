// Package repository provides authentication persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/brujulapp/brujula/internal/auth/domain"
	"github.com/brujulapp/brujula/internal/database"
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

// PostgreSQLAccountRepository implements account persistence for PostgreSQL.
type PostgreSQLAccountRepository struct {
	db *sql.DB
}

// NewPostgreSQLAccountRepository creates a new PostgreSQL account repository.
func NewPostgreSQLAccountRepository(db *sql.DB) *PostgreSQLAccountRepository {
	return &PostgreSQLAccountRepository{db: db}
}

// Create inserts a new account. Duplicate emails fail with
// ErrAccountAlreadyExists.
func (p *PostgreSQLAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO accounts (id, email, password_hash, role, student_id, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var studentID any
	if account.StudentID != nil {
		studentID = *account.StudentID
	}

	_, err := querier.ExecContext(
		ctx,
		query,
		account.ID,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		studentID,
		account.IsActive,
		account.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAccountAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create account")
	}

	return nil
}

// GetByID retrieves an account by id. Returns ErrAccountNotFound if absent.
func (p *PostgreSQLAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := accountSelectColumns + ` FROM accounts WHERE id = $1`

	row := querier.QueryRowContext(ctx, query, id)
	account, err := scanAccountRow(row.Scan)
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
func (p *PostgreSQLAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	querier := database.GetTx(ctx, p.db)

	query := accountSelectColumns + ` FROM accounts WHERE email = $1`

	row := querier.QueryRowContext(ctx, query, email)
	account, err := scanAccountRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get account")
	}

	return account, nil
}

const accountSelectColumns = `SELECT id, email, password_hash, role, student_id, is_active, created_at`

// scanAccountRow maps one row to a domain account.
func scanAccountRow(scan func(dest ...any) error) (*domain.Account, error) {
	var account domain.Account
	var role string
	var studentID uuid.NullUUID

	err := scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&role,
		&studentID,
		&account.IsActive,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Role = domain.Role(role)
	if studentID.Valid {
		id := studentID.UUID
		account.StudentID = &id
	}

	return &account, nil
}

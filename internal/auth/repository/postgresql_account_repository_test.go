package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brujulapp/brujula/internal/auth/domain"
)

var accountColumns = []string{
	"id", "email", "password_hash", "role", "student_id", "is_active", "created_at",
}

func newAdminAccount() *domain.Account {
	return &domain.Account{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        "admin@uni.edu",
		PasswordHash: "$argon2id$fake",
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestPostgreSQLAccountRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminAccountStoresNullStudentID", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		account := newAdminAccount()
		mock.ExpectExec("INSERT INTO accounts").
			WithArgs(
				account.ID,
				account.Email,
				account.PasswordHash,
				string(account.Role),
				nil,
				account.IsActive,
				account.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLAccountRepository(db)
		require.NoError(t, repo.Create(ctx, account))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		mock.ExpectExec("INSERT INTO accounts").
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewPostgreSQLAccountRepository(db)
		err = repo.Create(ctx, newAdminAccount())

		assert.ErrorIs(t, err, domain.ErrAccountAlreadyExists)
	})
}

func TestPostgreSQLAccountRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("StudentAccount", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		account := newAdminAccount()
		account.Role = domain.RoleStudent
		studentID := uuid.Must(uuid.NewV7())
		account.StudentID = &studentID

		rows := sqlmock.NewRows(accountColumns).AddRow(
			account.ID.String(),
			account.Email,
			account.PasswordHash,
			string(account.Role),
			studentID.String(),
			account.IsActive,
			account.CreatedAt,
		)
		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs(account.Email).
			WillReturnRows(rows)

		repo := NewPostgreSQLAccountRepository(db)
		found, err := repo.GetByEmail(ctx, account.Email)

		require.NoError(t, err)
		assert.Equal(t, account.ID, found.ID)
		assert.Equal(t, domain.RoleStudent, found.Role)
		require.NotNil(t, found.StudentID)
		assert.Equal(t, studentID, *found.StudentID)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		mock.ExpectQuery("FROM accounts WHERE email").
			WithArgs("nobody@uni.edu").
			WillReturnRows(sqlmock.NewRows(accountColumns))

		repo := NewPostgreSQLAccountRepository(db)
		_, err = repo.GetByEmail(ctx, "nobody@uni.edu")

		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestPostgreSQLTokenRepository_GetByTokenHash(t *testing.T) {
	ctx := context.Background()
	tokenColumns := []string{"id", "token_hash", "account_id", "expires_at", "revoked_at", "created_at"}

	t.Run("Found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		now := time.Now().UTC()
		tokenID := uuid.Must(uuid.NewV7())
		accountID := uuid.Must(uuid.NewV7())

		rows := sqlmock.NewRows(tokenColumns).AddRow(
			tokenID.String(),
			"some-hash",
			accountID.String(),
			now.Add(time.Hour),
			nil,
			now,
		)
		mock.ExpectQuery("FROM tokens WHERE token_hash").
			WithArgs("some-hash").
			WillReturnRows(rows)

		repo := NewPostgreSQLTokenRepository(db)
		token, err := repo.GetByTokenHash(ctx, "some-hash")

		require.NoError(t, err)
		assert.Equal(t, tokenID, token.ID)
		assert.Equal(t, accountID, token.AccountID)
		assert.Nil(t, token.RevokedAt)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		mock.ExpectQuery("FROM tokens WHERE token_hash").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(tokenColumns))

		repo := NewPostgreSQLTokenRepository(db)
		_, err = repo.GetByTokenHash(ctx, "missing")

		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	})
}

func TestPostgreSQLTokenRepository_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		id := uuid.Must(uuid.NewV7())
		mock.ExpectExec("UPDATE tokens SET revoked_at").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLTokenRepository(db)
		require.NoError(t, repo.Revoke(ctx, id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyRevokedOrMissing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() {
			_ = db.Close()
		}()

		mock.ExpectExec("UPDATE tokens SET revoked_at").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgreSQLTokenRepository(db)
		err = repo.Revoke(ctx, uuid.Must(uuid.NewV7()))

		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	})
}

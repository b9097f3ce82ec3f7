package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/brujulapp/brujula/internal/auth/domain"
	"github.com/brujulapp/brujula/internal/database"
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

// MySQLTokenRepository implements token persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// Create inserts a new session token.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *domain.Token) error {
	querier := database.GetTx(ctx, m.db)

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}
	accountID, err := token.AccountID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal account id")
	}

	query := `INSERT INTO tokens (id, token_hash, account_id, expires_at, revoked_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		accountID,
		token.ExpiresAt,
		token.RevokedAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}

	return nil
}

// GetByTokenHash retrieves a token by its hash. Returns ErrTokenNotFound
// if absent.
func (m *MySQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, account_id, expires_at, revoked_at, created_at
			  FROM tokens WHERE token_hash = ?`

	var token domain.Token
	var revokedAt sql.NullTime
	var idBinary, accountIDBinary []byte

	row := querier.QueryRowContext(ctx, query, tokenHash)
	err := row.Scan(
		&idBinary,
		&token.TokenHash,
		&accountIDBinary,
		&token.ExpiresAt,
		&revokedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}

	if err := token.ID.UnmarshalBinary(idBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}
	if err := token.AccountID.UnmarshalBinary(accountIDBinary); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal account id")
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		token.RevokedAt = &t
	}

	return &token, nil
}

// Revoke marks a token as revoked. Returns ErrTokenNotFound when the id
// does not exist.
func (m *MySQLTokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	idBinary, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	result, err := querier.ExecContext(
		ctx,
		`UPDATE tokens SET revoked_at = UTC_TIMESTAMP() WHERE id = ? AND revoked_at IS NULL`,
		idBinary,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke token")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check revoke result")
	}
	if affected == 0 {
		return domain.ErrTokenNotFound
	}

	return nil
}

// Package usecase implements business logic orchestration for
// authentication operations.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/brujulapp/brujula/internal/auth/domain"
)

// AccountRepository persists login accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// TokenRepository persists session tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *domain.Token) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Token, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

// CreateAccountParams carries the fields of a new account. StudentID is
// nil for admin accounts.
type CreateAccountParams struct {
	Email     string
	Password  string
	Role      domain.Role
	StudentID *uuid.UUID
}

// AccountUseCase manages login accounts.
type AccountUseCase interface {
	// Create hashes the password and persists the account. The plaintext
	// password is never stored.
	Create(ctx context.Context, params CreateAccountParams) (*domain.Account, error)
}

// TokenUseCase issues and validates session tokens.
type TokenUseCase interface {
	// Login verifies the credentials and issues a new token. The plain
	// token is returned exactly once. Unknown emails and wrong passwords
	// both yield ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (plainToken string, err error)

	// Authenticate resolves a token hash to its active account. Invalid,
	// expired and revoked tokens all yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, tokenHash string) (*domain.Account, error)

	// Logout revokes the token identified by its hash. Revoking an already
	// revoked or unknown token is not an error.
	Logout(ctx context.Context, tokenHash string) error
}

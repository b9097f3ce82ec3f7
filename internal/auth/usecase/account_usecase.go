package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brujulapp/brujula/internal/auth/domain"
	authService "github.com/brujulapp/brujula/internal/auth/service"
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

// accountUseCase implements AccountUseCase.
type accountUseCase struct {
	accountRepo   AccountRepository
	secretService authService.SecretService
}

// NewAccountUseCase creates a new AccountUseCase with the provided
// dependencies.
func NewAccountUseCase(
	accountRepo AccountRepository,
	secretService authService.SecretService,
) AccountUseCase {
	return &accountUseCase{
		accountRepo:   accountRepo,
		secretService: secretService,
	}
}

// Create hashes the password and persists the account.
func (a *accountUseCase) Create(ctx context.Context, params CreateAccountParams) (*domain.Account, error) {
	if !params.Role.IsValid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown role")
	}
	if params.Role == domain.RoleStudent && params.StudentID == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "student accounts require a student profile")
	}

	passwordHash, err := a.secretService.HashSecret(params.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        params.Email,
		PasswordHash: passwordHash,
		Role:         params.Role,
		StudentID:    params.StudentID,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := a.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

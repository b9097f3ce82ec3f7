package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/brujulapp/brujula/internal/auth/domain"
	authService "github.com/brujulapp/brujula/internal/auth/service"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	accountRepo   AccountRepository
	tokenRepo     TokenRepository
	secretService authService.SecretService
	tokenService  authService.TokenService
	tokenTTL      time.Duration
}

// NewTokenUseCase creates a new TokenUseCase with the provided
// dependencies. Issued tokens expire after tokenTTL.
func NewTokenUseCase(
	accountRepo AccountRepository,
	tokenRepo TokenRepository,
	secretService authService.SecretService,
	tokenService authService.TokenService,
	tokenTTL time.Duration,
) TokenUseCase {
	return &tokenUseCase{
		accountRepo:   accountRepo,
		tokenRepo:     tokenRepo,
		secretService: secretService,
		tokenService:  tokenService,
		tokenTTL:      tokenTTL,
	}
}

// Login verifies the credentials and issues a new session token.
//
// Unknown emails and wrong passwords both map to ErrInvalidCredentials so
// responses never reveal whether an email is registered.
func (t *tokenUseCase) Login(ctx context.Context, email, password string) (string, error) {
	account, err := t.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if !account.IsActive {
		return "", domain.ErrAccountInactive
	}

	if !t.secretService.CompareSecret(password, account.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	token := &domain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		AccountID: account.ID,
		ExpiresAt: now.Add(t.tokenTTL),
		CreatedAt: now,
	}

	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}

	return plainToken, nil
}

// Authenticate resolves a token hash to its active account.
func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*domain.Account, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if token.ExpiresAt.Before(time.Now().UTC()) {
		return nil, domain.ErrInvalidCredentials
	}
	if token.RevokedAt != nil {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := t.accountRepo.GetByID(ctx, token.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.IsActive {
		return nil, domain.ErrAccountInactive
	}

	return account, nil
}

// Logout revokes the token identified by its hash. Unknown tokens are
// ignored so logout is idempotent.
func (t *tokenUseCase) Logout(ctx context.Context, tokenHash string) error {
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil
		}
		return err
	}

	if token.RevokedAt != nil {
		return nil
	}

	return t.tokenRepo.Revoke(ctx, token.ID)
}

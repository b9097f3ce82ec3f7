package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	authDomain "github.com/brujulapp/brujula/internal/auth/domain"
	authUseCase "github.com/brujulapp/brujula/internal/auth/usecase"
	customValidation "github.com/brujulapp/brujula/internal/validation"
)

// RunCreateAdmin creates an administrator account. The password can be
// passed as a flag or entered interactively when omitted.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAdmin(
	ctx context.Context,
	accountUseCase authUseCase.AccountUseCase,
	logger *slog.Logger,
	email string,
	password string,
	io IOTuple,
) error {
	logger.Info("creating admin account", slog.String("email", email))

	if err := validation.Validate(email, validation.Required, customValidation.Email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	if password == "" {
		var err error
		password, err = promptForPassword(io)
		if err != nil {
			return err
		}
	}

	passwordRule := customValidation.PasswordStrength{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}
	if err := validation.Validate(password, validation.Required, passwordRule); err != nil {
		return fmt.Errorf("weak password: %w", err)
	}

	account, err := accountUseCase.Create(ctx, authUseCase.CreateAccountParams{
		Email:    email,
		Password: password,
		Role:     authDomain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	_, _ = fmt.Fprintln(io.Writer, "\nAdmin account created successfully!")
	_, _ = fmt.Fprintf(io.Writer, "Account ID: %s\n", account.ID.String())
	_, _ = fmt.Fprintf(io.Writer, "Email: %s\n", account.Email)

	logger.Info("admin account created",
		slog.String("account_id", account.ID.String()),
		slog.String("email", account.Email),
	)

	return nil
}

// promptForPassword reads the password from the interactive reader.
func promptForPassword(io IOTuple) (string, error) {
	reader := bufio.NewReader(io.Reader)

	_, _ = fmt.Fprint(io.Writer, "Enter password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return strings.TrimSpace(password), nil
}

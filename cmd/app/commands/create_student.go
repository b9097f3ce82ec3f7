package commands

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/jellydator/validation"

	authDomain "github.com/brujulapp/brujula/internal/auth/domain"
	authUseCase "github.com/brujulapp/brujula/internal/auth/usecase"
	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	studentsUseCase "github.com/brujulapp/brujula/internal/students/usecase"
	customValidation "github.com/brujulapp/brujula/internal/validation"
)

// RunCreateStudent creates a student profile together with its login
// account. Intended for onboarding and test environments; regular student
// accounts come from the institutional roster import.
//
// Requirements: Database must be migrated and accessible.
func RunCreateStudent(
	ctx context.Context,
	studentUseCase studentsUseCase.StudentUseCase,
	accountUseCase authUseCase.AccountUseCase,
	logger *slog.Logger,
	email string,
	password string,
	fullName string,
	career string,
	semester int,
	stage string,
	io IOTuple,
) error {
	logger.Info("creating student account", slog.String("email", email))

	if err := validation.Validate(email, validation.Required, customValidation.Email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	if err := validation.Validate(fullName, validation.Required, customValidation.NotBlank); err != nil {
		return fmt.Errorf("invalid full name: %w", err)
	}

	if password == "" {
		var err error
		password, err = promptForPassword(io)
		if err != nil {
			return err
		}
	}

	student, err := studentUseCase.Create(ctx, studentsUseCase.CreateStudentParams{
		Email:    email,
		FullName: fullName,
		Career:   career,
		Semester: semester,
		Stage:    diagnosticsDomain.Stage(stage),
	})
	if err != nil {
		return fmt.Errorf("failed to create student profile: %w", err)
	}

	account, err := accountUseCase.Create(ctx, authUseCase.CreateAccountParams{
		Email:     email,
		Password:  password,
		Role:      authDomain.RoleStudent,
		StudentID: &student.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to create student account: %w", err)
	}

	_, _ = fmt.Fprintln(io.Writer, "\nStudent created successfully!")
	_, _ = fmt.Fprintf(io.Writer, "Student ID: %s\n", student.ID.String())
	_, _ = fmt.Fprintf(io.Writer, "Account ID: %s\n", account.ID.String())
	_, _ = fmt.Fprintf(io.Writer, "Email: %s\n", student.Email)

	logger.Info("student created",
		slog.String("student_id", student.ID.String()),
		slog.String("account_id", account.ID.String()),
	)

	return nil
}

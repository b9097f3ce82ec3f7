package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	authDomain "github.com/brujulapp/brujula/internal/auth/domain"
	studentsUseCase "github.com/brujulapp/brujula/internal/students/usecase"
)

// RunExportStudents writes the student report CSV to the given path, or to
// stdout when the path is empty. The export is audit logged under a CLI
// actor and never includes decrypted matriculation ids.
func RunExportStudents(
	ctx context.Context,
	adminStudentUseCase studentsUseCase.AdminStudentUseCase,
	logger *slog.Logger,
	writer io.Writer,
	outputPath string,
) error {
	logger.Info("exporting student report", slog.String("output", outputPath))

	output := writer
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := file.Close(); err != nil {
				logger.Error("failed to close output file", slog.Any("error", err))
			}
		}()
		output = file
	}

	actor := studentsUseCase.Actor{
		RequestID: uuid.Must(uuid.NewV7()),
		Email:     "cli",
		Role:      string(authDomain.RoleAdmin),
		IP:        "local",
	}

	rows, err := adminStudentUseCase.ExportCSV(ctx, actor, output)
	if err != nil {
		return fmt.Errorf("failed to export students: %w", err)
	}

	if outputPath != "" {
		_, _ = fmt.Fprintf(writer, "Exported %d students to %s\n", rows, outputPath)
	}

	logger.Info("student report exported", slog.Int("rows", rows))
	return nil
}

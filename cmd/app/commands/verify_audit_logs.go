package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	auditUseCase "github.com/brujulapp/brujula/internal/audit/usecase"
)

// RunVerifyAuditLogs recomputes the signature of every stored audit record
// and reports tampering. Pages through the table oldest first; any invalid
// record makes the command exit non-zero.
func RunVerifyAuditLogs(
	ctx context.Context,
	auditLogUseCase auditUseCase.AuditLogUseCase,
	logger *slog.Logger,
	writer io.Writer,
	pageSize int,
) error {
	logger.Info("verifying audit log integrity", slog.Int("page_size", pageSize))

	var (
		checked    int
		valid      int
		invalidIDs []string
	)

	offset := 0
	for {
		report, err := auditLogUseCase.Verify(ctx, offset, pageSize)
		if err != nil {
			return fmt.Errorf("verification failed at offset %d: %w", offset, err)
		}

		checked += report.Checked
		valid += report.Valid
		for _, id := range report.InvalidIDs {
			invalidIDs = append(invalidIDs, id.String())
		}

		if report.Checked < pageSize {
			break
		}
		offset += pageSize
	}

	_, _ = fmt.Fprintln(writer, "Audit log verification completed.")
	_, _ = fmt.Fprintf(writer, "Records checked: %d\n", checked)
	_, _ = fmt.Fprintf(writer, "Valid: %d\n", valid)
	_, _ = fmt.Fprintf(writer, "Invalid: %d\n", len(invalidIDs))

	for _, id := range invalidIDs {
		_, _ = fmt.Fprintf(writer, "  invalid record: %s\n", id)
		logger.Error("audit record failed signature verification", slog.String("audit_log_id", id))
	}

	if len(invalidIDs) > 0 {
		return fmt.Errorf("%d audit records failed signature verification", len(invalidIDs))
	}

	logger.Info("audit log verification passed", slog.Int("checked", checked))
	return nil
}

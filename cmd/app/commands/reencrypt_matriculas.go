package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoUseCase "github.com/brujulapp/brujula/internal/crypto/usecase"
)

// RunReencryptMatriculas walks every stored matricula envelope and rewrites
// the ones encrypted under a non-current key. Pages through the table until
// the sweep reports no resume token; a per-record failure never aborts the
// run but makes the command exit non-zero so operators notice.
//
// With dryRun set, records are decrypted and counted but never rewritten.
func RunReencryptMatriculas(
	ctx context.Context,
	sweepUseCase cryptoUseCase.SweepUseCase,
	logger *slog.Logger,
	writer io.Writer,
	pageSize int,
	dryRun bool,
	resumeToken string,
) error {
	logger.Info("starting matricula re-encryption sweep",
		slog.Int("page_size", pageSize),
		slog.Bool("dry_run", dryRun),
	)

	var (
		processed   int
		reencrypted int
		skipped     int
		failures    []cryptoUseCase.SweepFailure
		pages       int
	)

	token := resumeToken
	for {
		result, err := sweepUseCase.Sweep(ctx, cryptoUseCase.SweepParams{
			PageSize:    pageSize,
			DryRun:      dryRun,
			ResumeToken: token,
		})
		if err != nil {
			if token != "" {
				_, _ = fmt.Fprintf(writer, "sweep interrupted, resume with --resume-token=%s\n", token)
			}
			return fmt.Errorf("sweep failed: %w", err)
		}

		pages++
		processed += result.Processed
		reencrypted += result.Reencrypted
		skipped += result.Skipped
		failures = append(failures, result.Failures...)

		logger.Info("sweep page completed",
			slog.Int("page", pages),
			slog.Int("processed", result.Processed),
			slog.Int("reencrypted", result.Reencrypted),
			slog.Int("skipped", result.Skipped),
			slog.Int("failures", len(result.Failures)),
		)

		if result.NextPageToken == "" {
			break
		}
		token = result.NextPageToken
	}

	action := "Re-encrypted"
	if dryRun {
		action = "Would re-encrypt"
	}

	_, _ = fmt.Fprintln(writer, "\nSweep completed.")
	_, _ = fmt.Fprintf(writer, "Records processed: %d\n", processed)
	_, _ = fmt.Fprintf(writer, "%s: %d\n", action, reencrypted)
	_, _ = fmt.Fprintf(writer, "Skipped (no payload): %d\n", skipped)
	_, _ = fmt.Fprintf(writer, "Failures: %d\n", len(failures))

	for _, failure := range failures {
		_, _ = fmt.Fprintf(writer, "  record %s: %s\n", failure.RecordID.String(), failure.Reason)
		logger.Error("record re-encryption failed",
			slog.String("record_id", failure.RecordID.String()),
			slog.String("reason", failure.Reason),
		)
	}

	if len(failures) > 0 {
		return fmt.Errorf("sweep finished with %d failed records", len(failures))
	}

	logger.Info("sweep finished",
		slog.Int("processed", processed),
		slog.Int("reencrypted", reencrypted),
	)
	return nil
}

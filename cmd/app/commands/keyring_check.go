package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
	studentsUseCase "github.com/brujulapp/brujula/internal/students/usecase"
)

// RunKeyringCheck reports the configured key ring against the key ids found
// in stored matricula envelopes. Envelopes encrypted under a kid that is no
// longer in the ring are undecryptable, so the command exits non-zero when
// it finds any.
func RunKeyringCheck(
	ctx context.Context,
	keyRing *cryptoDomain.KeyRing,
	studentRepo studentsUseCase.StudentRepository,
	logger *slog.Logger,
	writer io.Writer,
) error {
	logger.Info("checking key ring coverage")

	counts, err := studentRepo.CountByKid(ctx)
	if err != nil {
		return fmt.Errorf("failed to count envelopes per key id: %w", err)
	}

	ringKids := make(map[string]bool, len(keyRing.Kids()))
	for _, kid := range keyRing.Kids() {
		ringKids[kid] = true
	}

	_, _ = fmt.Fprintf(writer, "Current kid: %s\n", keyRing.CurrentKid())

	kids := keyRing.Kids()
	sort.Strings(kids)
	_, _ = fmt.Fprintln(writer, "\nKeys in ring:")
	for _, kid := range kids {
		_, _ = fmt.Fprintf(writer, "  %s (%d envelopes)\n", kid, counts[kid])
	}

	storedKids := make([]string, 0, len(counts))
	for kid := range counts {
		storedKids = append(storedKids, kid)
	}
	sort.Strings(storedKids)

	var missing []string
	stale := 0
	for _, kid := range storedKids {
		if !ringKids[kid] {
			missing = append(missing, kid)
			continue
		}
		if kid != keyRing.CurrentKid() {
			stale += counts[kid]
		}
	}

	if stale > 0 {
		_, _ = fmt.Fprintf(writer, "\n%d envelopes use an old key; run reencrypt-matriculas to rewrite them.\n", stale)
	}

	if len(missing) > 0 {
		_, _ = fmt.Fprintln(writer, "\nEnvelopes under kids missing from the ring:")
		for _, kid := range missing {
			_, _ = fmt.Fprintf(writer, "  %s (%d envelopes)\n", kid, counts[kid])
			logger.Error("stored envelopes reference unknown key id",
				slog.String("kid", kid),
				slog.Int("count", counts[kid]),
			)
		}
		return fmt.Errorf("%d key ids referenced by stored envelopes are missing from the ring", len(missing))
	}

	_, _ = fmt.Fprintln(writer, "\nKey ring covers every stored envelope.")
	logger.Info("key ring check passed",
		slog.String("current_kid", keyRing.CurrentKid()),
		slog.Int("keys_in_ring", len(kids)),
	)
	return nil
}

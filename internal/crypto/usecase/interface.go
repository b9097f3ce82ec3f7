// Package usecase implements the matricula re-encryption sweep.
package usecase

import (
	"context"

	"github.com/google/uuid"
)

// EncryptedRecord is one persisted record carrying an encrypted matricula
// payload, as raw bytes from the store.
type EncryptedRecord struct {
	ID      uuid.UUID
	Payload []byte
}

// EncryptedRecordRepository is the narrow persistence surface the sweep
// needs: keyset-paginated listing and whole-value payload replacement.
type EncryptedRecordRepository interface {
	// ListEncryptedBatch returns up to limit records with a non-null
	// encrypted payload, ordered by id, strictly after afterID (uuid.Nil
	// starts from the beginning).
	ListEncryptedBatch(ctx context.Context, afterID uuid.UUID, limit int) ([]EncryptedRecord, error)

	// UpdateEncryptedPayload replaces a record's payload in place.
	UpdateEncryptedPayload(ctx context.Context, id uuid.UUID, payload []byte) error
}

// SweepParams controls one sweep invocation.
type SweepParams struct {
	PageSize    int
	DryRun      bool
	ResumeToken string
}

// SweepFailure reports a single record that could not be re-encrypted.
type SweepFailure struct {
	RecordID uuid.UUID
	Reason   string
}

// SweepResult summarizes one sweep page.
type SweepResult struct {
	// Processed counts every record examined, including skips and failures.
	Processed int
	// Reencrypted counts records rewritten (or, in dry-run, that would be).
	Reencrypted int
	// Skipped counts records with a malformed or absent payload; these are
	// not this sweep's concern and are not failures.
	Skipped int
	// Failures holds per-record errors; a failing record never aborts the page.
	Failures []SweepFailure
	// NextPageToken resumes the sweep on the next invocation; empty when the
	// walk is complete.
	NextPageToken string
}

// SweepUseCase walks persisted encrypted records and re-wraps any payload
// not already under the ring's current kid.
type SweepUseCase interface {
	Sweep(ctx context.Context, params SweepParams) (SweepResult, error)
}

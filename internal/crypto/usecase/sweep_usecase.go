package usecase

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"

	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
	cryptoService "github.com/brujulapp/brujula/internal/crypto/service"
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

// sweepUseCase implements SweepUseCase over a record repository and the
// process key ring.
type sweepUseCase struct {
	recordRepo EncryptedRecordRepository
	cipher     cryptoService.EnvelopeCipher
	keyRing    *cryptoDomain.KeyRing
}

// NewSweepUseCase creates a new SweepUseCase instance.
func NewSweepUseCase(
	recordRepo EncryptedRecordRepository,
	cipher cryptoService.EnvelopeCipher,
	keyRing *cryptoDomain.KeyRing,
) SweepUseCase {
	return &sweepUseCase{
		recordRepo: recordRepo,
		cipher:     cipher,
		keyRing:    keyRing,
	}
}

// Sweep processes one bounded page of records.
//
// Per record: a malformed or absent payload is skipped (counted, not an
// error); a payload already under the current kid is left alone so repeated
// runs do no redundant work; anything else is decrypted under its old key
// and rewritten under the current one. Strict kid resolution applies here:
// re-encrypting a payload whose key cannot be identified with certainty
// would corrupt it, so an unresolvable kid is a per-record failure rather
// than a fallback. Each record is isolated: a failure is recorded and the
// page continues.
//
// Two concurrent sweeps over the same page would re-encrypt the same records
// redundantly but harmlessly; re-encryption under the current key is
// idempotent once complete, so no locking is needed.
func (s *sweepUseCase) Sweep(ctx context.Context, params SweepParams) (SweepResult, error) {
	var result SweepResult

	if params.PageSize <= 0 {
		return result, apperrors.Wrap(apperrors.ErrInvalidInput, "page size must be greater than 0")
	}

	afterID, err := decodeResumeToken(params.ResumeToken)
	if err != nil {
		return result, err
	}

	records, err := s.recordRepo.ListEncryptedBatch(ctx, afterID, params.PageSize)
	if err != nil {
		return result, apperrors.Wrap(err, "failed to list encrypted records")
	}

	currentKid := s.keyRing.CurrentKid()
	currentKey := s.keyRing.Current()

	for _, record := range records {
		result.Processed++

		payload, err := cryptoDomain.DecodePayload(record.Payload)
		if err != nil {
			// Not this sweep's concern; the record never held a usable envelope.
			result.Skipped++
			continue
		}

		if payload.Kid == currentKid {
			continue
		}

		if failure := s.reencrypt(ctx, record.ID, payload, currentKey, params.DryRun); failure != nil {
			result.Failures = append(result.Failures, *failure)
			continue
		}

		result.Reencrypted++
	}

	if len(records) == params.PageSize {
		result.NextPageToken = encodeResumeToken(records[len(records)-1].ID)
	}

	return result, nil
}

// reencrypt rewraps a single payload under the current key. Returns a
// SweepFailure instead of an error so the caller can keep iterating.
func (s *sweepUseCase) reencrypt(
	ctx context.Context,
	recordID uuid.UUID,
	payload cryptoDomain.EncryptedPayload,
	currentKey cryptoDomain.KeyRecord,
	dryRun bool,
) *SweepFailure {
	oldKey, err := s.keyRing.Resolve(payload.Kid)
	if err != nil {
		return &SweepFailure{RecordID: recordID, Reason: err.Error()}
	}

	plaintext, err := s.cipher.Decrypt(payload, oldKey.KeyB64())
	if err != nil {
		return &SweepFailure{RecordID: recordID, Reason: err.Error()}
	}

	if dryRun {
		return nil
	}

	newPayload, err := s.cipher.Encrypt(plaintext, currentKey)
	if err != nil {
		return &SweepFailure{RecordID: recordID, Reason: err.Error()}
	}

	encoded, err := newPayload.Encode()
	if err != nil {
		return &SweepFailure{RecordID: recordID, Reason: err.Error()}
	}

	if err := s.recordRepo.UpdateEncryptedPayload(ctx, recordID, encoded); err != nil {
		return &SweepFailure{RecordID: recordID, Reason: err.Error()}
	}

	return nil
}

// encodeResumeToken encodes the last seen record id as an opaque token.
func encodeResumeToken(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

// decodeResumeToken parses a resume token back into a record id.
// An empty token starts the walk from the beginning.
func decodeResumeToken(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid resume token", apperrors.ErrInvalidInput)
	}

	id, err := uuid.Parse(string(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid resume token", apperrors.ErrInvalidInput)
	}

	return id, nil
}

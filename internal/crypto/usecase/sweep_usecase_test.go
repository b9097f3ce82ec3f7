package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
	cryptoService "github.com/brujulapp/brujula/internal/crypto/service"
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

// fakeRecordRepo is an in-memory EncryptedRecordRepository keyed by id.
type fakeRecordRepo struct {
	records map[uuid.UUID][]byte
	updates int
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[uuid.UUID][]byte)}
}

func (f *fakeRecordRepo) ListEncryptedBatch(
	_ context.Context,
	afterID uuid.UUID,
	limit int,
) ([]EncryptedRecord, error) {
	ids := make([]uuid.UUID, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	batch := make([]EncryptedRecord, 0, limit)
	for _, id := range ids {
		if afterID != uuid.Nil && id.String() <= afterID.String() {
			continue
		}
		batch = append(batch, EncryptedRecord{ID: id, Payload: f.records[id]})
		if len(batch) == limit {
			break
		}
	}
	return batch, nil
}

func (f *fakeRecordRepo) UpdateEncryptedPayload(_ context.Context, id uuid.UUID, payload []byte) error {
	f.records[id] = payload
	f.updates++
	return nil
}

func newTestRing(t *testing.T, currentKid string, kids ...string) *cryptoDomain.KeyRing {
	t.Helper()

	keys := make(map[string]string, len(kids))
	for _, kid := range kids {
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)
		keys[kid] = base64.StdEncoding.EncodeToString(key)
	}

	ring, err := cryptoDomain.NewKeyRing(currentKid, keys)
	require.NoError(t, err)
	t.Cleanup(ring.Close)

	return ring
}

func encryptRecord(
	t *testing.T,
	cipher cryptoService.EnvelopeCipher,
	key cryptoDomain.KeyRecord,
	plaintext string,
) []byte {
	t.Helper()

	payload, err := cipher.Encrypt(plaintext, key)
	require.NoError(t, err)
	raw, err := payload.Encode()
	require.NoError(t, err)

	return raw
}

func TestSweepUseCase_Sweep(t *testing.T) {
	ctx := context.Background()

	t.Run("ReencryptsOldKidsOnly", func(t *testing.T) {
		ring := newTestRing(t, "2025-01", "2024-01", "2025-01")
		cipher := cryptoService.NewEnvelopeCipher()
		repo := newFakeRecordRepo()

		oldID := uuid.Must(uuid.NewV7())
		currentID := uuid.Must(uuid.NewV7())
		malformedID := uuid.Must(uuid.NewV7())
		repo.records[oldID] = encryptRecord(t, cipher, ring.ByKid("2024-01"), "U-20190001")
		repo.records[currentID] = encryptRecord(t, cipher, ring.Current(), "U-20250002")
		repo.records[malformedID] = []byte("{not an envelope")

		uc := NewSweepUseCase(repo, cipher, ring)
		result, err := uc.Sweep(ctx, SweepParams{PageSize: 10})

		require.NoError(t, err)
		assert.Equal(t, 3, result.Processed)
		assert.Equal(t, 1, result.Reencrypted)
		assert.Equal(t, 1, result.Skipped)
		assert.Empty(t, result.Failures)
		assert.Empty(t, result.NextPageToken)

		// The rewritten payload decrypts to the original plaintext under the
		// current key.
		payload, err := cryptoDomain.DecodePayload(repo.records[oldID])
		require.NoError(t, err)
		assert.Equal(t, "2025-01", payload.Kid)
		plaintext, err := cipher.Decrypt(payload, ring.Current().KeyB64())
		require.NoError(t, err)
		assert.Equal(t, "U-20190001", plaintext)
	})

	t.Run("SecondRunIsIdempotent", func(t *testing.T) {
		ring := newTestRing(t, "2025-01", "2024-01", "2025-01")
		cipher := cryptoService.NewEnvelopeCipher()
		repo := newFakeRecordRepo()

		for i := 0; i < 5; i++ {
			repo.records[uuid.Must(uuid.NewV7())] = encryptRecord(t, cipher, ring.ByKid("2024-01"), "U-2019000")
		}

		uc := NewSweepUseCase(repo, cipher, ring)

		first, err := uc.Sweep(ctx, SweepParams{PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 5, first.Reencrypted)

		second, err := uc.Sweep(ctx, SweepParams{PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 5, second.Processed)
		assert.Equal(t, 0, second.Reencrypted)
	})

	t.Run("PerRecordFailureDoesNotAbortPage", func(t *testing.T) {
		ring := newTestRing(t, "2025-01", "2024-01", "2025-01")
		foreignRing := newTestRing(t, "lost-kid", "lost-kid")
		cipher := cryptoService.NewEnvelopeCipher()
		repo := newFakeRecordRepo()

		badID := uuid.Must(uuid.NewV7())
		goodID := uuid.Must(uuid.NewV7())
		// Encrypted under a key that is absent from the process ring.
		repo.records[badID] = encryptRecord(t, cipher, foreignRing.Current(), "U-20180003")
		repo.records[goodID] = encryptRecord(t, cipher, ring.ByKid("2024-01"), "U-20190004")

		uc := NewSweepUseCase(repo, cipher, ring)
		result, err := uc.Sweep(ctx, SweepParams{PageSize: 10})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 1, result.Reencrypted)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, badID, result.Failures[0].RecordID)
		assert.Contains(t, result.Failures[0].Reason, "unknown key id")
	})

	t.Run("DryRunPersistsNothing", func(t *testing.T) {
		ring := newTestRing(t, "2025-01", "2024-01", "2025-01")
		cipher := cryptoService.NewEnvelopeCipher()
		repo := newFakeRecordRepo()

		repo.records[uuid.Must(uuid.NewV7())] = encryptRecord(t, cipher, ring.ByKid("2024-01"), "U-20190005")

		uc := NewSweepUseCase(repo, cipher, ring)
		result, err := uc.Sweep(ctx, SweepParams{PageSize: 10, DryRun: true})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Reencrypted)
		assert.Zero(t, repo.updates)
	})

	t.Run("PaginationResumesFromToken", func(t *testing.T) {
		ring := newTestRing(t, "2025-01", "2024-01", "2025-01")
		cipher := cryptoService.NewEnvelopeCipher()
		repo := newFakeRecordRepo()

		for i := 0; i < 5; i++ {
			repo.records[uuid.Must(uuid.NewV7())] = encryptRecord(t, cipher, ring.ByKid("2024-01"), "U-2019000")
		}

		uc := NewSweepUseCase(repo, cipher, ring)

		first, err := uc.Sweep(ctx, SweepParams{PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, 3, first.Processed)
		require.NotEmpty(t, first.NextPageToken)

		second, err := uc.Sweep(ctx, SweepParams{PageSize: 3, ResumeToken: first.NextPageToken})
		require.NoError(t, err)
		assert.Equal(t, 2, second.Processed)
		assert.Empty(t, second.NextPageToken)

		assert.Equal(t, 5, first.Reencrypted+second.Reencrypted)
	})

	t.Run("InvalidResumeToken", func(t *testing.T) {
		ring := newTestRing(t, "2025-01", "2025-01")
		uc := NewSweepUseCase(newFakeRecordRepo(), cryptoService.NewEnvelopeCipher(), ring)

		_, err := uc.Sweep(ctx, SweepParams{PageSize: 10, ResumeToken: "!!!"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("InvalidPageSize", func(t *testing.T) {
		ring := newTestRing(t, "2025-01", "2025-01")
		uc := NewSweepUseCase(newFakeRecordRepo(), cryptoService.NewEnvelopeCipher(), ring)

		_, err := uc.Sweep(ctx, SweepParams{PageSize: 0})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

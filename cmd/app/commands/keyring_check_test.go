package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
	studentsDomain "github.com/brujulapp/brujula/internal/students/domain"
)

type mockStudentRepository struct {
	mock.Mock
}

func (m *mockStudentRepository) Create(ctx context.Context, student *studentsDomain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *mockStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*studentsDomain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studentsDomain.Student), args.Error(1)
}

func (m *mockStudentRepository) GetByEmail(ctx context.Context, email string) (*studentsDomain.Student, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*studentsDomain.Student), args.Error(1)
}

func (m *mockStudentRepository) Update(ctx context.Context, student *studentsDomain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *mockStudentRepository) List(ctx context.Context, offset, limit int) ([]*studentsDomain.Student, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*studentsDomain.Student), args.Error(1)
}

func (m *mockStudentRepository) SetMatriculaPayload(ctx context.Context, id uuid.UUID, payload []byte) error {
	args := m.Called(ctx, id, payload)
	return args.Error(0)
}

func (m *mockStudentRepository) CountByKid(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func newTestKeyRing(t *testing.T, currentKid string, kids ...string) *cryptoDomain.KeyRing {
	t.Helper()

	keysB64 := make(map[string]string, len(kids))
	for i, kid := range kids {
		key := bytes.Repeat([]byte{byte(i + 1)}, 32)
		keysB64[kid] = base64.StdEncoding.EncodeToString(key)
	}

	ring, err := cryptoDomain.NewKeyRing(currentKid, keysB64)
	require.NoError(t, err)
	t.Cleanup(ring.Close)
	return ring
}

func TestRunKeyringCheck(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("full-coverage", func(t *testing.T) {
		ring := newTestKeyRing(t, "2025-02", "2025-01", "2025-02")

		repo := &mockStudentRepository{}
		repo.On("CountByKid", ctx).Return(map[string]int{"2025-01": 3, "2025-02": 7}, nil)

		var out bytes.Buffer
		err := RunKeyringCheck(ctx, ring, repo, logger, &out)

		require.NoError(t, err)
		require.Contains(t, out.String(), "Current kid: 2025-02")
		require.Contains(t, out.String(), "2025-01 (3 envelopes)")
		require.Contains(t, out.String(), "2025-02 (7 envelopes)")
		require.Contains(t, out.String(), "3 envelopes use an old key")
		require.Contains(t, out.String(), "covers every stored envelope")
		repo.AssertExpectations(t)
	})

	t.Run("missing-kid", func(t *testing.T) {
		ring := newTestKeyRing(t, "2025-02", "2025-02")

		repo := &mockStudentRepository{}
		repo.On("CountByKid", ctx).Return(map[string]int{"2024-12": 5, "2025-02": 1}, nil)

		var out bytes.Buffer
		err := RunKeyringCheck(ctx, ring, repo, logger, &out)

		require.Error(t, err)
		require.Contains(t, err.Error(), "missing from the ring")
		require.Contains(t, out.String(), "2024-12 (5 envelopes)")
	})

	t.Run("count-error", func(t *testing.T) {
		ring := newTestKeyRing(t, "2025-02", "2025-02")

		repo := &mockStudentRepository{}
		repo.On("CountByKid", ctx).Return(nil, errors.New("query timeout"))

		err := RunKeyringCheck(ctx, ring, repo, logger, &bytes.Buffer{})

		require.Error(t, err)
		require.Contains(t, err.Error(), "query timeout")
	})
}

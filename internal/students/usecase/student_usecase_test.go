package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
	cryptoService "github.com/brujulapp/brujula/internal/crypto/service"
	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/students/domain"
)

// mockStudentRepository is a hand-written testify mock for
// StudentRepository.
type mockStudentRepository struct {
	mock.Mock
}

func (m *mockStudentRepository) Create(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *mockStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *mockStudentRepository) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *mockStudentRepository) Update(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *mockStudentRepository) List(ctx context.Context, offset, limit int) ([]*domain.Student, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Student), args.Error(1)
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

func newTestRing(t *testing.T, kids ...string) *cryptoDomain.KeyRing {
	t.Helper()

	if len(kids) == 0 {
		kids = []string{"2025-01"}
	}

	keys := make(map[string]string, len(kids))
	for _, kid := range kids {
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)
		keys[kid] = base64.StdEncoding.EncodeToString(key)
	}

	ring, err := cryptoDomain.NewKeyRing(kids[len(kids)-1], keys)
	require.NoError(t, err)
	t.Cleanup(ring.Close)

	return ring
}

func TestStudentUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := &mockStudentRepository{}
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Student")).Return(nil).Once()

		uc := NewStudentUseCase(repo, cryptoService.NewEnvelopeCipher(), newTestRing(t))
		student, err := uc.Create(ctx, CreateStudentParams{
			Email:    "ana@uni.edu",
			FullName: "Ana Torres",
			Career:   "Ingeniería en Computación",
			Semester: 1,
			Stage:    diagnosticsDomain.StageExploracion,
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, student.ID)
		assert.False(t, student.HasMatricula())
		repo.AssertExpectations(t)
	})

	t.Run("UnknownStage", func(t *testing.T) {
		uc := NewStudentUseCase(&mockStudentRepository{}, cryptoService.NewEnvelopeCipher(), newTestRing(t))
		_, err := uc.Create(ctx, CreateStudentParams{
			Email: "ana@uni.edu",
			Stage: diagnosticsDomain.Stage("posgrado"),
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestStudentUseCase_SetMatricula(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.Must(uuid.NewV7())

	t.Run("EncryptsUnderCurrentKey", func(t *testing.T) {
		repo := &mockStudentRepository{}
		ring := newTestRing(t)
		cipher := cryptoService.NewEnvelopeCipher()

		var stored []byte
		repo.On("SetMatriculaPayload", ctx, studentID, mock.AnythingOfType("[]uint8")).
			Run(func(args mock.Arguments) {
				stored = args.Get(2).([]byte)
			}).
			Return(nil).
			Once()

		uc := NewStudentUseCase(repo, cipher, ring)
		require.NoError(t, uc.SetMatricula(ctx, studentID, "A01234567"))

		// The stored envelope is tagged with the current kid and round-trips.
		payload, err := cryptoDomain.DecodePayload(stored)
		require.NoError(t, err)
		assert.Equal(t, ring.CurrentKid(), payload.Kid)

		plaintext, err := cipher.Decrypt(payload, ring.Current().KeyB64())
		require.NoError(t, err)
		assert.Equal(t, "A01234567", plaintext)
	})

	t.Run("EmptyMatricula", func(t *testing.T) {
		uc := NewStudentUseCase(&mockStudentRepository{}, cryptoService.NewEnvelopeCipher(), newTestRing(t))
		err := uc.SetMatricula(ctx, studentID, "")

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestStudentUseCase_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.Must(uuid.NewV7())

	repo := &mockStudentRepository{}
	repo.On("GetByID", ctx, studentID).
		Return(&domain.Student{ID: studentID, Stage: diagnosticsDomain.StageExploracion}, nil).
		Once()
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Student")).Return(nil).Once()

	uc := NewStudentUseCase(repo, cryptoService.NewEnvelopeCipher(), newTestRing(t))
	student, err := uc.UpdateProfile(ctx, studentID, UpdateStudentParams{
		FullName: "Ana Torres",
		Career:   "Ingeniería en Computación",
		Semester: 4,
		Stage:    diagnosticsDomain.StageEnfoque,
	})

	require.NoError(t, err)
	assert.Equal(t, diagnosticsDomain.StageEnfoque, student.Stage)
	assert.Equal(t, 4, student.Semester)
	repo.AssertExpectations(t)
}

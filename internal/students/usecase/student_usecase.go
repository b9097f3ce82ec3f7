package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/brujulapp/brujula/internal/crypto/service"

	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/students/domain"
)

// studentUseCase implements StudentUseCase.
type studentUseCase struct {
	studentRepo StudentRepository
	cipher      cryptoService.EnvelopeCipher
	keyRing     *cryptoDomain.KeyRing
}

// NewStudentUseCase creates a new StudentUseCase with the provided
// dependencies.
func NewStudentUseCase(
	studentRepo StudentRepository,
	cipher cryptoService.EnvelopeCipher,
	keyRing *cryptoDomain.KeyRing,
) StudentUseCase {
	return &studentUseCase{
		studentRepo: studentRepo,
		cipher:      cipher,
		keyRing:     keyRing,
	}
}

// Create persists a new student profile with a generated UUIDv7 id.
func (s *studentUseCase) Create(ctx context.Context, params CreateStudentParams) (*domain.Student, error) {
	if !params.Stage.IsValid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown stage")
	}

	now := time.Now().UTC()
	student := &domain.Student{
		ID:        uuid.Must(uuid.NewV7()),
		Email:     params.Email,
		FullName:  params.FullName,
		Career:    params.Career,
		Semester:  params.Semester,
		Stage:     params.Stage,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// Get retrieves a student profile by id.
func (s *studentUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// UpdateProfile replaces the editable profile fields.
func (s *studentUseCase) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	params UpdateStudentParams,
) (*domain.Student, error) {
	if !params.Stage.IsValid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown stage")
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	student.FullName = params.FullName
	student.Career = params.Career
	student.Semester = params.Semester
	student.Stage = params.Stage
	student.UpdatedAt = time.Now().UTC()

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// SetMatricula encrypts the matriculation id under the current key and
// stores the envelope in place of any previous one.
func (s *studentUseCase) SetMatricula(ctx context.Context, id uuid.UUID, matricula string) error {
	if matricula == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "matricula cannot be empty")
	}

	payload, err := s.cipher.Encrypt(matricula, s.keyRing.Current())
	if err != nil {
		return apperrors.Wrap(err, "failed to encrypt matricula")
	}

	encoded, err := payload.Encode()
	if err != nil {
		return apperrors.Wrap(err, "failed to encode matricula payload")
	}

	if err := s.studentRepo.SetMatriculaPayload(ctx, id, encoded); err != nil {
		return err
	}

	return nil
}

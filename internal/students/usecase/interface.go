// Package usecase implements business logic for student profiles and the
// audited access flows around the encrypted matriculation id.
package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"

	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	"github.com/brujulapp/brujula/internal/students/domain"
)

// StudentRepository persists student profiles.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	Update(ctx context.Context, student *domain.Student) error
	List(ctx context.Context, offset, limit int) ([]*domain.Student, error)
	SetMatriculaPayload(ctx context.Context, id uuid.UUID, payload []byte) error
	CountByKid(ctx context.Context) (map[string]int, error)
}

// GoalCounter reports how many goals a student has; used by the CSV
// export.
type GoalCounter interface {
	CountByStudent(ctx context.Context, studentID uuid.UUID) (int, error)
}

// CreateStudentParams carries the fields of a new student profile.
type CreateStudentParams struct {
	Email    string
	FullName string
	Career   string
	Semester int
	Stage    diagnosticsDomain.Stage
}

// UpdateStudentParams carries the editable profile fields.
type UpdateStudentParams struct {
	FullName string
	Career   string
	Semester int
	Stage    diagnosticsDomain.Stage
}

// StudentUseCase manages a student's own profile and encrypted
// matriculation id.
type StudentUseCase interface {
	Create(ctx context.Context, params CreateStudentParams) (*domain.Student, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Student, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateStudentParams) (*domain.Student, error)

	// SetMatricula encrypts the matriculation id under the ring's current
	// key and stores the envelope. The plaintext is never persisted.
	SetMatricula(ctx context.Context, id uuid.UUID, matricula string) error
}

// Actor identifies the administrator performing a guarded action.
type Actor struct {
	RequestID uuid.UUID
	ID        uuid.UUID
	Email     string
	Role      string
	IP        string
}

// AdminStudentUseCase exposes the administrator-only student operations:
// listing, the rate-limited audited matricula reveal, and the CSV export.
type AdminStudentUseCase interface {
	List(ctx context.Context, offset, limit int) ([]*domain.Student, error)

	// RevealMatricula decrypts a student's matriculation id. The call is
	// rate limited per (actor, student, ip) and audit logged; audit
	// failure is logged but never blocks the reveal.
	RevealMatricula(ctx context.Context, actor Actor, studentID uuid.UUID) (string, error)

	// ExportCSV writes the audited student report. The report never
	// contains decrypted matriculation ids. Returns the number of rows
	// written.
	ExportCSV(ctx context.Context, actor Actor, w io.Writer) (int, error)
}

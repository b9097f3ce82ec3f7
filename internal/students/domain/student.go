// Package domain contains the student profile entities. The matriculation
// id is never stored in plaintext; it lives in an envelope-encrypted
// payload and is only decrypted through the audited admin reveal flow.
package domain

import (
	"time"

	"github.com/google/uuid"

	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
)

// Student is a student profile. MatriculaPayload holds the JSON-encoded
// encrypted envelope of the matriculation id, or nil when not set.
type Student struct {
	ID               uuid.UUID
	Email            string
	FullName         string
	Career           string
	Semester         int
	Stage            diagnosticsDomain.Stage
	MatriculaPayload []byte
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasMatricula reports whether an encrypted matriculation id is stored.
func (s *Student) HasMatricula() bool {
	return len(s.MatriculaPayload) > 0
}

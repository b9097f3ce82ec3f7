// Package usecase implements business logic for audit logging.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/brujulapp/brujula/internal/audit/domain"
)

// AuditLogRepository persists audit records.
type AuditLogRepository interface {
	Create(ctx context.Context, auditLog *auditDomain.AuditLog) error
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.AuditLog, error)
}

// Entry carries the caller-supplied fields of a new audit record.
type Entry struct {
	RequestID  uuid.UUID
	ActorID    uuid.UUID
	ActorEmail string
	Role       string
	Action     auditDomain.Action
	Resource   string
	SubjectID  uuid.UUID
	Metadata   map[string]any
}

// VerificationReport summarizes an integrity check over a page of records.
type VerificationReport struct {
	Checked    int
	Valid      int
	InvalidIDs []uuid.UUID
}

// AuditLogUseCase records and inspects sensitive-access audit logs.
type AuditLogUseCase interface {
	// Create signs and persists a new record, returning its generated id.
	// Failure wraps domain.ErrAuditWrite; callers must treat it as non-fatal
	// to the guarded action.
	Create(ctx context.Context, entry Entry) (uuid.UUID, error)

	// List retrieves records ordered newest first with pagination and
	// optional inclusive time bounds (nil means unbounded).
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.AuditLog, error)

	// Verify recomputes signatures for a page of records. A record is valid
	// when any key in the ring verifies it, so logs signed before a rotation
	// stay verifiable as long as the old key remains in the ring.
	Verify(ctx context.Context, offset, limit int) (VerificationReport, error)
}

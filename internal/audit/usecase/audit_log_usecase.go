package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/brujulapp/brujula/internal/audit/domain"
	auditService "github.com/brujulapp/brujula/internal/audit/service"
	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

// auditLogUseCase implements AuditLogUseCase.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
	signer       auditService.AuditSigner
	keyRing      *cryptoDomain.KeyRing
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
func NewAuditLogUseCase(
	auditLogRepo AuditLogRepository,
	signer auditService.AuditSigner,
	keyRing *cryptoDomain.KeyRing,
) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
		signer:       signer,
		keyRing:      keyRing,
	}
}

// Create signs and persists an audit record. Generates a UUIDv7 id and UTC
// timestamp, signs under the ring's current key, and appends the record.
func (a *auditLogUseCase) Create(ctx context.Context, entry Entry) (uuid.UUID, error) {
	auditLog := &auditDomain.AuditLog{
		ID:         uuid.Must(uuid.NewV7()),
		RequestID:  entry.RequestID,
		ActorID:    entry.ActorID,
		ActorEmail: entry.ActorEmail,
		Role:       entry.Role,
		Action:     entry.Action,
		Resource:   entry.Resource,
		SubjectID:  entry.SubjectID,
		Metadata:   entry.Metadata,
		CreatedAt:  time.Now().UTC(),
	}

	signature, err := a.signer.Sign(a.keyRing.Current(), auditLog)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(auditDomain.ErrAuditWrite, err.Error())
	}
	auditLog.Signature = signature

	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return uuid.Nil, apperrors.Wrap(auditDomain.ErrAuditWrite, err.Error())
	}

	return auditLog.ID, nil
}

// List retrieves audit logs ordered by created_at descending (newest first)
// with pagination and optional inclusive time filters. All timestamps are
// expected in UTC. Returns an empty slice if no audit logs are found.
func (a *auditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}

	return auditLogs, nil
}

// Verify recomputes signatures for one page of records, trying every ring
// key so records signed before a key rotation remain verifiable.
func (a *auditLogUseCase) Verify(ctx context.Context, offset, limit int) (VerificationReport, error) {
	var report VerificationReport

	auditLogs, err := a.auditLogRepo.List(ctx, offset, limit, nil, nil)
	if err != nil {
		return report, apperrors.Wrap(err, "failed to list audit logs")
	}

	for _, auditLog := range auditLogs {
		report.Checked++
		if a.verifiesUnderAnyKey(auditLog) {
			report.Valid++
			continue
		}
		report.InvalidIDs = append(report.InvalidIDs, auditLog.ID)
	}

	return report, nil
}

func (a *auditLogUseCase) verifiesUnderAnyKey(auditLog *auditDomain.AuditLog) bool {
	for _, kid := range a.keyRing.Kids() {
		key, err := a.keyRing.Resolve(kid)
		if err != nil {
			continue
		}
		if a.signer.Verify(key, auditLog) == nil {
			return true
		}
	}
	return false
}

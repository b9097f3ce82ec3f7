package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/brujulapp/brujula/internal/audit/domain"
	auditUseCase "github.com/brujulapp/brujula/internal/audit/usecase"
	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
	cryptoService "github.com/brujulapp/brujula/internal/crypto/service"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/ratelimit"
	"github.com/brujulapp/brujula/internal/students/domain"
)

const revealAction = "reveal_matricula"

// adminStudentUseCase implements AdminStudentUseCase.
type adminStudentUseCase struct {
	studentRepo  StudentRepository
	goalCounter  GoalCounter
	cipher       cryptoService.EnvelopeCipher
	keyRing      *cryptoDomain.KeyRing
	limiter      *ratelimit.Limiter
	auditLogs    auditUseCase.AuditLogUseCase
	logger       *slog.Logger
	revealLimit  int
	revealWindow time.Duration
}

// NewAdminStudentUseCase creates a new AdminStudentUseCase with the
// provided dependencies.
func NewAdminStudentUseCase(
	studentRepo StudentRepository,
	goalCounter GoalCounter,
	cipher cryptoService.EnvelopeCipher,
	keyRing *cryptoDomain.KeyRing,
	limiter *ratelimit.Limiter,
	auditLogs auditUseCase.AuditLogUseCase,
	logger *slog.Logger,
	revealLimit int,
	revealWindow time.Duration,
) AdminStudentUseCase {
	return &adminStudentUseCase{
		studentRepo:  studentRepo,
		goalCounter:  goalCounter,
		cipher:       cipher,
		keyRing:      keyRing,
		limiter:      limiter,
		auditLogs:    auditLogs,
		logger:       logger,
		revealLimit:  revealLimit,
		revealWindow: revealWindow,
	}
}

// List retrieves students ordered newest first.
func (a *adminStudentUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Student, error) {
	return a.studentRepo.List(ctx, offset, limit)
}

// RevealMatricula decrypts a student's matriculation id for an
// administrator. Order matters: the rate limiter gates the attempt before
// any data is touched, the audit record is written before decryption, and
// an audit failure is logged but never blocks the reveal.
func (a *adminStudentUseCase) RevealMatricula(
	ctx context.Context,
	actor Actor,
	studentID uuid.UUID,
) (string, error) {
	key := ratelimit.Key(revealAction, actor.ID.String(), studentID.String(), actor.IP)
	result := a.limiter.Consume(key, a.revealLimit, a.revealWindow)
	if !result.Allowed {
		return "", &domain.RateLimitedError{RetryAfter: result.RetryAfter}
	}

	student, err := a.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return "", err
	}
	if !student.HasMatricula() {
		return "", domain.ErrMatriculaNotSet
	}

	a.writeAudit(ctx, actor, auditDomain.ActionRevealMatricula,
		fmt.Sprintf("/v1/admin/students/%s/matricula", studentID), studentID)

	payload, err := cryptoDomain.DecodePayload(student.MatriculaPayload)
	if err != nil {
		return "", apperrors.Wrap(err, "stored matricula payload is malformed")
	}

	keyRecord := a.keyRing.ByKid(payload.Kid)
	plaintext, err := a.cipher.Decrypt(payload, keyRecord.KeyB64())
	if err != nil {
		return "", apperrors.Wrap(err, "failed to decrypt matricula")
	}

	return plaintext, nil
}

// ExportCSV writes the student report. Matriculation ids are reported
// only as a set/unset flag; the export never decrypts anything.
func (a *adminStudentUseCase) ExportCSV(ctx context.Context, actor Actor, w io.Writer) (int, error) {
	a.writeAudit(ctx, actor, auditDomain.ActionExportStudents, "/v1/admin/reports/students", uuid.Nil)

	writer := csv.NewWriter(w)
	header := []string{"id", "email", "full_name", "career", "semester", "stage", "goals", "has_matricula"}
	if err := writer.Write(header); err != nil {
		return 0, apperrors.Wrap(err, "failed to write csv header")
	}

	const pageSize = 500
	written := 0

	for offset := 0; ; offset += pageSize {
		students, err := a.studentRepo.List(ctx, offset, pageSize)
		if err != nil {
			return written, apperrors.Wrap(err, "failed to list students")
		}

		for _, student := range students {
			goalCount, err := a.goalCounter.CountByStudent(ctx, student.ID)
			if err != nil {
				return written, apperrors.Wrap(err, "failed to count goals")
			}

			record := []string{
				student.ID.String(),
				student.Email,
				student.FullName,
				student.Career,
				strconv.Itoa(student.Semester),
				string(student.Stage),
				strconv.Itoa(goalCount),
				strconv.FormatBool(student.HasMatricula()),
			}
			if err := writer.Write(record); err != nil {
				return written, apperrors.Wrap(err, "failed to write csv record")
			}
			written++
		}

		if len(students) < pageSize {
			break
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return written, apperrors.Wrap(err, "failed to flush csv")
	}

	return written, nil
}

// writeAudit records the guarded action. Failure is non-fatal by design;
// the primary action proceeds and the failure is logged for operators.
func (a *adminStudentUseCase) writeAudit(
	ctx context.Context,
	actor Actor,
	action auditDomain.Action,
	resource string,
	subjectID uuid.UUID,
) {
	_, err := a.auditLogs.Create(ctx, auditUseCase.Entry{
		RequestID:  actor.RequestID,
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Role:       actor.Role,
		Action:     action,
		Resource:   resource,
		SubjectID:  subjectID,
		Metadata:   map[string]any{"ip": actor.IP},
	})
	if err != nil {
		a.logger.Error("audit write failed",
			"action", string(action),
			"resource", resource,
			"error", err,
		)
	}
}

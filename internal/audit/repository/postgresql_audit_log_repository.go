// Package repository provides audit log persistence implementations.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/brujulapp/brujula/internal/audit/domain"
	"github.com/brujulapp/brujula/internal/database"
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

// PostgreSQLAuditLogRepository implements audit log persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLAuditLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditLogRepository creates a new PostgreSQL audit log repository.
func NewPostgreSQLAuditLogRepository(db *sql.DB) *PostgreSQLAuditLogRepository {
	return &PostgreSQLAuditLogRepository{db: db}
}

// Create inserts a new audit log. Handles nil metadata and uuid.Nil subject
// as database NULLs. The table has no update or delete path; records are
// append-only.
func (p *PostgreSQLAuditLogRepository) Create(ctx context.Context, auditLog *auditDomain.AuditLog) error {
	querier := database.GetTx(ctx, p.db)

	var metadataJSON []byte
	var err error

	if auditLog.Metadata != nil {
		metadataJSON, err = json.Marshal(auditLog.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit log metadata")
		}
	}

	var subjectID any
	if auditLog.SubjectID != uuid.Nil {
		subjectID = auditLog.SubjectID
	}

	query := `INSERT INTO audit_logs
			  (id, request_id, actor_id, actor_email, role, action, resource, subject_id, metadata, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = querier.ExecContext(
		ctx,
		query,
		auditLog.ID,
		auditLog.RequestID,
		auditLog.ActorID,
		auditLog.ActorEmail,
		auditLog.Role,
		string(auditLog.Action),
		auditLog.Resource,
		subjectID,
		metadataJSON,
		auditLog.Signature,
		auditLog.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs ordered by created_at descending (newest first)
// with pagination and optional time-based filtering. Both boundaries are
// inclusive (>= and <=) and expected in UTC. Returns an empty slice if no
// audit logs are found.
func (p *PostgreSQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditLog, error) {
	querier := database.GetTx(ctx, p.db)

	// Build dynamic WHERE clause based on provided filters
	var conditions []string
	var args []interface{}
	argPos := 1

	if createdAtFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *createdAtFrom)
		argPos++
	}

	if createdAtTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argPos))
		args = append(args, *createdAtTo)
		argPos++
	}

	query := `SELECT id, request_id, actor_id, actor_email, role, action, resource, subject_id, metadata, signature, created_at
			  FROM audit_logs`

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	auditLogs := make([]*auditDomain.AuditLog, 0)
	for rows.Next() {
		auditLog, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		auditLogs = append(auditLogs, auditLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit logs")
	}

	return auditLogs, nil
}

// scanAuditLog maps one row to a domain record, handling NULL subject and
// metadata.
func scanAuditLog(rows *sql.Rows) (*auditDomain.AuditLog, error) {
	var auditLog auditDomain.AuditLog
	var action string
	var subjectID uuid.NullUUID
	var metadataJSON []byte

	err := rows.Scan(
		&auditLog.ID,
		&auditLog.RequestID,
		&auditLog.ActorID,
		&auditLog.ActorEmail,
		&auditLog.Role,
		&action,
		&auditLog.Resource,
		&subjectID,
		&metadataJSON,
		&auditLog.Signature,
		&auditLog.CreatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan audit log")
	}

	auditLog.Action = auditDomain.Action(action)
	if subjectID.Valid {
		auditLog.SubjectID = subjectID.UUID
	}
	if metadataJSON != nil {
		if err := json.Unmarshal(metadataJSON, &auditLog.Metadata); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log metadata")
		}
	}

	return &auditLog, nil
}

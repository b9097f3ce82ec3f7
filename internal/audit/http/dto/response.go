// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/brujulapp/brujula/internal/audit/domain"
	auditUseCase "github.com/brujulapp/brujula/internal/audit/usecase"
)

// AuditLogResponse represents an audit log entry in API responses. The
// signature stays internal; integrity is reported through the verify
// endpoint instead.
type AuditLogResponse struct {
	ID         string         `json:"id"`
	RequestID  string         `json:"request_id"`
	ActorID    string         `json:"actor_id"`
	ActorEmail string         `json:"actor_email"`
	Role       string         `json:"role"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	SubjectID  string         `json:"subject_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// MapAuditLogToResponse converts a domain audit log to an API response.
func MapAuditLogToResponse(auditLog *auditDomain.AuditLog) AuditLogResponse {
	response := AuditLogResponse{
		ID:         auditLog.ID.String(),
		RequestID:  auditLog.RequestID.String(),
		ActorID:    auditLog.ActorID.String(),
		ActorEmail: auditLog.ActorEmail,
		Role:       auditLog.Role,
		Action:     string(auditLog.Action),
		Resource:   auditLog.Resource,
		Metadata:   auditLog.Metadata,
		CreatedAt:  auditLog.CreatedAt,
	}

	if auditLog.SubjectID != uuid.Nil {
		response.SubjectID = auditLog.SubjectID.String()
	}

	return response
}

// ListAuditLogsResponse is a page of audit logs.
type ListAuditLogsResponse struct {
	Data []AuditLogResponse `json:"data"`
}

// MapAuditLogsToListResponse converts audit logs to a list API response.
func MapAuditLogsToListResponse(auditLogs []*auditDomain.AuditLog) ListAuditLogsResponse {
	data := make([]AuditLogResponse, 0, len(auditLogs))
	for _, auditLog := range auditLogs {
		data = append(data, MapAuditLogToResponse(auditLog))
	}
	return ListAuditLogsResponse{Data: data}
}

// VerificationResponse summarizes an integrity check over a page of
// audit records.
type VerificationResponse struct {
	Checked    int      `json:"checked"`
	Valid      int      `json:"valid"`
	InvalidIDs []string `json:"invalid_ids"`
}

// MapVerificationToResponse converts a verification report to an API response.
func MapVerificationToResponse(report auditUseCase.VerificationReport) VerificationResponse {
	invalidIDs := make([]string, 0, len(report.InvalidIDs))
	for _, id := range report.InvalidIDs {
		invalidIDs = append(invalidIDs, id.String())
	}
	return VerificationResponse{
		Checked:    report.Checked,
		Valid:      report.Valid,
		InvalidIDs: invalidIDs,
	}
}

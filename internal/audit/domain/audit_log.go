// Package domain defines the audit log models for sensitive-access tracking.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies the guarded operation an audit record describes.
type Action string

// Audited actions.
const (
	ActionRevealMatricula Action = "reveal_matricula"
	ActionExportStudents  Action = "export_students"
	ActionReencryptSweep  Action = "reencrypt_sweep"
)

// AuditLog records one sensitive access or administrative action. Records
// are append-only: written once, never updated or deleted by the
// application. Each record carries an HMAC signature so later tampering in
// the store is detectable.
type AuditLog struct {
	ID         uuid.UUID
	RequestID  uuid.UUID
	ActorID    uuid.UUID // Who performed the action
	ActorEmail string
	Role       string // Actor role at the time of the action
	Action     Action
	Resource   string    // Resource path or name acted upon
	SubjectID  uuid.UUID // Student the action concerned, uuid.Nil when none
	Metadata   map[string]any
	Signature  []byte
	CreatedAt  time.Time
}

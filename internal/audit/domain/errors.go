package domain

import (
	"github.com/brujulapp/brujula/internal/errors"
)

var (
	// ErrSignatureInvalid indicates an audit record's signature does not
	// match its contents: the record was modified after being written.
	ErrSignatureInvalid = errors.New("audit log signature invalid")

	// ErrAuditWrite indicates the audit record could not be persisted.
	// Callers MUST treat this as non-fatal to the guarded action and log it
	// for operational visibility; audit completeness is best-effort, not
	// transactionally coupled to the action it describes.
	ErrAuditWrite = errors.New("audit write failed")
)

// Package service provides HMAC signing for audit log integrity.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/brujulapp/brujula/internal/audit/domain"
	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
)

// AuditSigner signs and verifies audit log records.
type AuditSigner interface {
	// Sign computes the HMAC-SHA256 signature for the record under a signing
	// key derived from the given ring key.
	Sign(key cryptoDomain.KeyRecord, log *auditDomain.AuditLog) ([]byte, error)

	// Verify recomputes the signature and compares it in constant time.
	// Returns ErrSignatureInvalid when the record was tampered with.
	Verify(key cryptoDomain.KeyRecord, log *auditDomain.AuditLog) error
}

type auditSigner struct{}

// NewAuditSigner creates an HMAC-based audit log signer using HKDF-SHA256
// for key derivation and HMAC-SHA256 for signature generation.
func NewAuditSigner() AuditSigner {
	return &auditSigner{}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// ring key. Separates encryption key usage from signing key usage.
// Info parameter: "audit-log-signing-v1" (versioned for future algorithm changes).
func (a *auditSigner) deriveSigningKey(ringKey []byte) ([]byte, error) {
	info := []byte("audit-log-signing-v1")
	reader := hkdf.New(sha256.New, ringKey, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalizeLog converts an audit log to a canonical byte representation.
// Uses length-prefixed encoding for variable-length fields to prevent
// ambiguity between adjacent values.
func (a *auditSigner) canonicalizeLog(log *auditDomain.AuditLog) ([]byte, error) {
	buf := make([]byte, 0, 512)

	buf = append(buf, log.RequestID[:]...)
	buf = append(buf, log.ActorID[:]...)
	buf = append(buf, log.SubjectID[:]...)

	buf = appendLengthPrefixed(buf, []byte(log.ActorEmail))
	buf = appendLengthPrefixed(buf, []byte(log.Role))
	buf = appendLengthPrefixed(buf, []byte(string(log.Action)))
	buf = appendLengthPrefixed(buf, []byte(log.Resource))

	if log.Metadata != nil {
		metadataBytes, err := json.Marshal(log.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(log.CreatedAt.UnixNano()))
	buf = append(buf, timeBytes...)

	return buf, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign generates the HMAC-SHA256 signature for the audit log.
func (a *auditSigner) Sign(key cryptoDomain.KeyRecord, log *auditDomain.AuditLog) ([]byte, error) {
	signingKey, err := a.deriveSigningKey(key.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer cryptoDomain.Zero(signingKey)

	canonical, err := a.canonicalizeLog(log)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize log: %w", err)
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)

	return mac.Sum(nil), nil
}

// Verify checks the audit log signature.
func (a *auditSigner) Verify(key cryptoDomain.KeyRecord, log *auditDomain.AuditLog) error {
	expectedSig, err := a.Sign(key, log)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(log.Signature, expectedSig) {
		return auditDomain.ErrSignatureInvalid
	}

	return nil
}

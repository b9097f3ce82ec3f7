package service

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/brujulapp/brujula/internal/audit/domain"
	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
)

func signerKey(t *testing.T) cryptoDomain.KeyRecord {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	return cryptoDomain.KeyRecord{Kid: "2025-01", Key: key}
}

func sampleLog() *auditDomain.AuditLog {
	return &auditDomain.AuditLog{
		ID:         uuid.Must(uuid.NewV7()),
		RequestID:  uuid.Must(uuid.NewV7()),
		ActorID:    uuid.Must(uuid.NewV7()),
		ActorEmail: "admin@uni.edu",
		Role:       "admin",
		Action:     auditDomain.ActionRevealMatricula,
		Resource:   "/v1/admin/students/42/matricula",
		SubjectID:  uuid.Must(uuid.NewV7()),
		Metadata:   map[string]any{"ip": "10.0.0.1"},
		CreatedAt:  time.Now().UTC(),
	}
}

func TestAuditSigner_SignAndVerify(t *testing.T) {
	signer := NewAuditSigner()
	key := signerKey(t)

	log := sampleLog()
	signature, err := signer.Sign(key, log)
	require.NoError(t, err)
	assert.Len(t, signature, 32)

	log.Signature = signature
	assert.NoError(t, signer.Verify(key, log))
}

func TestAuditSigner_Verify_DetectsTampering(t *testing.T) {
	signer := NewAuditSigner()
	key := signerKey(t)

	log := sampleLog()
	signature, err := signer.Sign(key, log)
	require.NoError(t, err)
	log.Signature = signature

	t.Run("ModifiedAction", func(t *testing.T) {
		tampered := *log
		tampered.Action = auditDomain.ActionExportStudents

		assert.ErrorIs(t, signer.Verify(key, &tampered), auditDomain.ErrSignatureInvalid)
	})

	t.Run("ModifiedSubject", func(t *testing.T) {
		tampered := *log
		tampered.SubjectID = uuid.Must(uuid.NewV7())

		assert.ErrorIs(t, signer.Verify(key, &tampered), auditDomain.ErrSignatureInvalid)
	})

	t.Run("ModifiedMetadata", func(t *testing.T) {
		tampered := *log
		tampered.Metadata = map[string]any{"ip": "10.0.0.2"}

		assert.ErrorIs(t, signer.Verify(key, &tampered), auditDomain.ErrSignatureInvalid)
	})

	t.Run("WrongKey", func(t *testing.T) {
		assert.ErrorIs(t, signer.Verify(signerKey(t), log), auditDomain.ErrSignatureInvalid)
	})
}

func TestAuditSigner_Sign_Deterministic(t *testing.T) {
	signer := NewAuditSigner()
	key := signerKey(t)
	log := sampleLog()

	first, err := signer.Sign(key, log)
	require.NoError(t, err)
	second, err := signer.Sign(key, log)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretService_HashAndCompare(t *testing.T) {
	svc := NewSecretService()

	hashed, err := svc.HashSecret("SecurePass123!")
	require.NoError(t, err)
	assert.NotEqual(t, "SecurePass123!", hashed)

	assert.True(t, svc.CompareSecret("SecurePass123!", hashed))
	assert.False(t, svc.CompareSecret("WrongPass123!", hashed))
}

func TestSecretService_CompareWithMalformedHash(t *testing.T) {
	svc := NewSecretService()

	assert.False(t, svc.CompareSecret("SecurePass123!", "not-a-valid-hash"))
}

func TestSecretService_HashesAreSalted(t *testing.T) {
	svc := NewSecretService()

	first, err := svc.HashSecret("SecurePass123!")
	require.NoError(t, err)
	second, err := svc.HashSecret("SecurePass123!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/brujulapp/brujula/internal/errors"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		shouldErr bool
	}{
		{name: "valid email", email: "ana@uni.edu", shouldErr: false},
		{name: "valid with subdomain", email: "ana.torres@alumnos.uni.edu.mx", shouldErr: false},
		{name: "missing at", email: "ana.uni.edu", shouldErr: true},
		{name: "missing domain", email: "ana@", shouldErr: true},
		{name: "missing tld", email: "ana@uni", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email.Validate(tt.email)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMatricula(t *testing.T) {
	tests := []struct {
		name      string
		matricula string
		shouldErr bool
	}{
		{name: "letter prefix", matricula: "A01234567", shouldErr: false},
		{name: "digits only", matricula: "20251234", shouldErr: false},
		{name: "too short", matricula: "A123", shouldErr: true},
		{name: "too long", matricula: "A12345678901", shouldErr: true},
		{name: "embedded spaces", matricula: "A01 234567", shouldErr: true},
		{name: "two letter prefix", matricula: "AB1234567", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Matricula.Validate(tt.matricula)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("Ana"))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate(""))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("ana@uni.edu"))
	assert.Error(t, NoWhitespace.Validate(" ana@uni.edu"))
	assert.Error(t, NoWhitespace.Validate("ana@uni.edu "))
}

func TestBase64(t *testing.T) {
	assert.NoError(t, Base64.Validate("aGVsbG8="))
	assert.NoError(t, Base64.Validate(""))
	assert.Error(t, Base64.Validate("not base64!!"))
}

func TestPasswordStrength(t *testing.T) {
	rule := PasswordStrength{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	tests := []struct {
		name      string
		password  string
		shouldErr bool
	}{
		{name: "valid password", password: "SecurePass123!", shouldErr: false},
		{name: "too short", password: "Sh1!", shouldErr: true},
		{name: "missing uppercase", password: "securepass123!", shouldErr: true},
		{name: "missing lowercase", password: "SECUREPASS123!", shouldErr: true},
		{name: "missing number", password: "SecurePass!", shouldErr: true},
		{name: "missing special char", password: "SecurePass123", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.password)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(assert.AnError)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

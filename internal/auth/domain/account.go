// Package domain defines authentication and authorization domain models.
//
// Accounts authenticate with email and password and carry a single role.
// Student accounts are linked to a student profile; admin accounts are not.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse-grained authorization level of an account.
type Role string

const (
	// RoleStudent grants access to the account's own profile, diagnostics
	// and goals.
	RoleStudent Role = "student"

	// RoleAdmin additionally grants the guarded administrative operations:
	// student listing, the matricula reveal, exports and audit log access.
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Account represents a login identity.
type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string // Argon2id hash, never the plaintext
	Role         Role
	StudentID    *uuid.UUID // Linked student profile, nil for admins
	IsActive     bool
	CreatedAt    time.Time
}

// Token is a bearer session token. Only the SHA-256 hash is stored; the
// plain token is returned once at login and never again.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	AccountID uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

package domain

import (
	"github.com/brujulapp/brujula/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrAccountNotFound indicates an account with the specified id or email
	// was not found.
	ErrAccountNotFound = errors.Wrap(errors.ErrNotFound, "account not found")

	// ErrAccountAlreadyExists indicates the email is already registered.
	ErrAccountAlreadyExists = errors.Wrap(errors.ErrConflict, "account already exists")

	// ErrTokenNotFound indicates a token with the specified hash was not found.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidCredentials covers unknown emails, wrong passwords and
	// invalid, expired or revoked tokens. A single error keeps account
	// enumeration impossible from the outside.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrAccountInactive indicates the account exists but cannot be used.
	ErrAccountInactive = errors.Wrap(errors.ErrForbidden, "account is inactive")
)

package domain

import (
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

var (
	// ErrGoalNotFound indicates no goal exists for the lookup.
	ErrGoalNotFound = apperrors.Wrap(apperrors.ErrNotFound, "goal not found")

	// ErrInvalidStatusTransition indicates a disallowed lifecycle change.
	ErrInvalidStatusTransition = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid goal status transition")

	// ErrInvalidTemplateCatalog indicates the embedded template catalog
	// failed validation at load time.
	ErrInvalidTemplateCatalog = apperrors.Wrap(apperrors.ErrConfiguration, "invalid goal template catalog")
)

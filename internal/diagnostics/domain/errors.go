package domain

import (
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

var (
	// ErrUnknownStage indicates a stage value outside the known progression.
	ErrUnknownStage = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown stage")

	// ErrInvalidCatalog indicates the embedded diagnostic test definitions
	// failed schema validation at load time.
	ErrInvalidCatalog = apperrors.Wrap(apperrors.ErrConfiguration, "invalid diagnostic catalog")

	// ErrResultNotFound indicates no diagnostic result exists for the lookup.
	ErrResultNotFound = apperrors.Wrap(apperrors.ErrNotFound, "diagnostic result not found")
)

package domain

import (
	"fmt"
	"time"

	apperrors "github.com/brujulapp/brujula/internal/errors"
)

var (
	// ErrStudentNotFound indicates no student exists for the lookup.
	ErrStudentNotFound = apperrors.Wrap(apperrors.ErrNotFound, "student not found")

	// ErrStudentAlreadyExists indicates a duplicate email on creation.
	ErrStudentAlreadyExists = apperrors.Wrap(apperrors.ErrConflict, "student already exists")

	// ErrMatriculaNotSet indicates a reveal was requested for a student
	// with no encrypted matriculation id stored.
	ErrMatriculaNotSet = apperrors.Wrap(apperrors.ErrNotFound, "matricula not set")
)

// RateLimitedError carries the retry delay for a throttled reveal or
// export. It unwraps to ErrRateLimited so handlers can map it to 429.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// Unwrap makes errors.Is(err, apperrors.ErrRateLimited) hold.
func (e *RateLimitedError) Unwrap() error {
	return apperrors.ErrRateLimited
}

// RetryAfterSeconds returns the delay rounded up to whole seconds, with a
// minimum of one second.
func (e *RateLimitedError) RetryAfterSeconds() int {
	seconds := int((e.RetryAfter + time.Second - 1) / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}

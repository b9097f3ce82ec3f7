// Package usecase implements business logic for diagnostic test attempts.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/brujulapp/brujula/internal/diagnostics/domain"
	goalsDomain "github.com/brujulapp/brujula/internal/goals/domain"
)

// ResultRepository persists completed diagnostic attempts.
type ResultRepository interface {
	Create(ctx context.Context, result *domain.Result) error
	ListByStudent(ctx context.Context, studentID uuid.UUID, offset, limit int) ([]*domain.Result, error)
}

// Submission carries a student's completed diagnostic attempt.
type Submission struct {
	StudentID uuid.UUID
	Stage     domain.Stage
	Answers   []domain.Answer
}

// SubmissionOutcome is the stored attempt plus its ranked recommendations.
type SubmissionOutcome struct {
	Result          *domain.Result
	Recommendations []goalsDomain.Template
}

// DiagnosticUseCase validates, stores, and scores diagnostic attempts.
type DiagnosticUseCase interface {
	// Submit validates the submission, persists the attempt, and returns
	// goal recommendations ranked for the student's stage.
	Submit(ctx context.Context, submission Submission) (*SubmissionOutcome, error)

	// TestForStage returns the questionnaire for a stage.
	TestForStage(stage domain.Stage) (*domain.Test, error)

	// History lists a student's past attempts, newest first.
	History(ctx context.Context, studentID uuid.UUID, offset, limit int) ([]*domain.Result, error)
}

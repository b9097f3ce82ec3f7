package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brujulapp/brujula/internal/diagnostics/catalog"
	"github.com/brujulapp/brujula/internal/diagnostics/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	goalsUseCase "github.com/brujulapp/brujula/internal/goals/usecase"
)

// diagnosticUseCase implements DiagnosticUseCase.
type diagnosticUseCase struct {
	resultRepo          ResultRepository
	catalog             *catalog.Catalog
	recommendations     goalsUseCase.RecommendationUseCase
	recommendationLimit int
}

// NewDiagnosticUseCase creates a new DiagnosticUseCase with the provided
// dependencies.
func NewDiagnosticUseCase(
	resultRepo ResultRepository,
	diagnosticCatalog *catalog.Catalog,
	recommendations goalsUseCase.RecommendationUseCase,
	recommendationLimit int,
) DiagnosticUseCase {
	return &diagnosticUseCase{
		resultRepo:          resultRepo,
		catalog:             diagnosticCatalog,
		recommendations:     recommendations,
		recommendationLimit: recommendationLimit,
	}
}

// Submit validates the attempt, stores it, and ranks recommendations.
// Answer values are validated here, at the trust boundary; the recommender
// itself stays lenient.
func (d *diagnosticUseCase) Submit(ctx context.Context, submission Submission) (*SubmissionOutcome, error) {
	if !submission.Stage.IsValid() {
		return nil, apperrors.Wrap(domain.ErrUnknownStage, string(submission.Stage))
	}
	if len(submission.Answers) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "answers cannot be empty")
	}
	for i, answer := range submission.Answers {
		if answer.Key == "" {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("answer %d: key cannot be empty", i))
		}
		if answer.Value < 1 || answer.Value > 5 {
			return nil, apperrors.Wrap(
				apperrors.ErrInvalidInput,
				fmt.Sprintf("answer %d: value must be between 1 and 5", i),
			)
		}
	}

	result := &domain.Result{
		ID:        uuid.Must(uuid.NewV7()),
		StudentID: submission.StudentID,
		Stage:     submission.Stage,
		Answers:   submission.Answers,
		CreatedAt: time.Now().UTC(),
	}

	if err := d.resultRepo.Create(ctx, result); err != nil {
		return nil, apperrors.Wrap(err, "failed to store diagnostic result")
	}

	recommendations, err := d.recommendations.Recommend(
		submission.Stage,
		submission.Answers,
		d.recommendationLimit,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to rank recommendations")
	}

	return &SubmissionOutcome{Result: result, Recommendations: recommendations}, nil
}

// TestForStage returns the questionnaire for a stage.
func (d *diagnosticUseCase) TestForStage(stage domain.Stage) (*domain.Test, error) {
	return d.catalog.TestForStage(stage)
}

// History lists a student's past attempts, newest first.
func (d *diagnosticUseCase) History(
	ctx context.Context,
	studentID uuid.UUID,
	offset, limit int,
) ([]*domain.Result, error) {
	results, err := d.resultRepo.ListByStudent(ctx, studentID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list diagnostic results")
	}
	return results, nil
}

// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/brujulapp/brujula/internal/diagnostics/domain"
)

// AnswerRequest is one answered question in a submission.
type AnswerRequest struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// SubmitDiagnosticRequest contains a completed diagnostic attempt.
type SubmitDiagnosticRequest struct {
	Stage   string          `json:"stage"`
	Answers []AnswerRequest `json:"answers"`
}

// Validate checks if the submission is well formed. Stage membership and
// answer ranges are enforced by the use case.
func (r *SubmitDiagnosticRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Stage,
			validation.Required,
		),
		validation.Field(&r.Answers,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.By(validateAnswer)),
		),
	)
}

// validateAnswer validates a single answer entry.
func validateAnswer(value interface{}) error {
	answer, ok := value.(AnswerRequest)
	if !ok {
		return validation.NewError("validation_answer_type", "must be an answer")
	}

	return validation.ValidateStruct(&answer,
		validation.Field(&answer.Key,
			validation.Required,
			validation.Length(1, 100),
		),
		validation.Field(&answer.Value,
			validation.Required,
			validation.Min(1),
			validation.Max(5),
		),
	)
}

// ToAnswers maps the request answers to domain answers.
func (r *SubmitDiagnosticRequest) ToAnswers() []domain.Answer {
	answers := make([]domain.Answer, 0, len(r.Answers))
	for _, answer := range r.Answers {
		answers = append(answers, domain.Answer{Key: answer.Key, Value: answer.Value})
	}
	return answers
}

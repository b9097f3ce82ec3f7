package dto

import (
	"time"

	"github.com/brujulapp/brujula/internal/diagnostics/domain"
	diagnosticsUseCase "github.com/brujulapp/brujula/internal/diagnostics/usecase"
	goalsDomain "github.com/brujulapp/brujula/internal/goals/domain"
)

// OptionResponse is one answer option of a question.
type OptionResponse struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// QuestionResponse is one questionnaire entry.
type QuestionResponse struct {
	Key     string           `json:"key"`
	Text    string           `json:"text"`
	Options []OptionResponse `json:"options"`
}

// TestResponse is the questionnaire for a stage.
type TestResponse struct {
	Stage     string             `json:"stage"`
	Title     string             `json:"title"`
	Questions []QuestionResponse `json:"questions"`
}

// MapTestToResponse converts a domain test to an API response. Focus area
// mappings are internal to the recommendation engine and never exposed.
func MapTestToResponse(test *domain.Test) TestResponse {
	questions := make([]QuestionResponse, 0, len(test.Questions))
	for _, question := range test.Questions {
		options := make([]OptionResponse, 0, len(question.Options))
		for _, option := range question.Options {
			options = append(options, OptionResponse{Value: option.Value, Label: option.Label})
		}
		questions = append(questions, QuestionResponse{
			Key:     question.Key,
			Text:    question.Text,
			Options: options,
		})
	}

	return TestResponse{
		Stage:     string(test.Stage),
		Title:     test.Title,
		Questions: questions,
	}
}

// RecommendationResponse is one recommended goal template.
type RecommendationResponse struct {
	TemplateID  string `json:"template_id"`
	Stage       string `json:"stage"`
	Dimension   string `json:"dimension"`
	Category    string `json:"category"`
	MetaSmarter string `json:"meta_smarter"`
	PasosAccion string `json:"pasos_accion"`
}

// MapTemplateToResponse converts a goal template to a recommendation entry.
func MapTemplateToResponse(template goalsDomain.Template) RecommendationResponse {
	return RecommendationResponse{
		TemplateID:  template.ID,
		Stage:       template.StageID,
		Dimension:   template.Dimension,
		Category:    template.Category,
		MetaSmarter: template.MetaSmarter,
		PasosAccion: template.PasosAccion,
	}
}

// SubmissionResponse is the stored attempt plus its recommendations.
type SubmissionResponse struct {
	ResultID        string                   `json:"result_id"`
	Stage           string                   `json:"stage"`
	CreatedAt       time.Time                `json:"created_at"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}

// MapOutcomeToResponse converts a submission outcome to an API response.
func MapOutcomeToResponse(outcome *diagnosticsUseCase.SubmissionOutcome) SubmissionResponse {
	recommendations := make([]RecommendationResponse, 0, len(outcome.Recommendations))
	for _, template := range outcome.Recommendations {
		recommendations = append(recommendations, MapTemplateToResponse(template))
	}

	return SubmissionResponse{
		ResultID:        outcome.Result.ID.String(),
		Stage:           string(outcome.Result.Stage),
		CreatedAt:       outcome.Result.CreatedAt,
		Recommendations: recommendations,
	}
}

// ResultResponse is one stored diagnostic attempt.
type ResultResponse struct {
	ID        string          `json:"id"`
	Stage     string          `json:"stage"`
	Answers   []AnswerRequest `json:"answers"`
	CreatedAt time.Time       `json:"created_at"`
}

// MapResultToResponse converts a stored result to an API response.
func MapResultToResponse(result *domain.Result) ResultResponse {
	answers := make([]AnswerRequest, 0, len(result.Answers))
	for _, answer := range result.Answers {
		answers = append(answers, AnswerRequest{Key: answer.Key, Value: answer.Value})
	}

	return ResultResponse{
		ID:        result.ID.String(),
		Stage:     string(result.Stage),
		Answers:   answers,
		CreatedAt: result.CreatedAt,
	}
}

// ListResultsResponse is a page of stored attempts.
type ListResultsResponse struct {
	Data []ResultResponse `json:"data"`
}

// MapResultsToListResponse converts stored results to a list API response.
func MapResultsToListResponse(results []*domain.Result) ListResultsResponse {
	data := make([]ResultResponse, 0, len(results))
	for _, result := range results {
		data = append(data, MapResultToResponse(result))
	}
	return ListResultsResponse{Data: data}
}

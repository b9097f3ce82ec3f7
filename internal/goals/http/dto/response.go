package dto

import (
	"time"

	"github.com/brujulapp/brujula/internal/goals/domain"
)

// GoalResponse represents a personal goal in API responses.
type GoalResponse struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id,omitempty"`
	Stage      string    `json:"stage"`
	Dimension  string    `json:"dimension"`
	Category   string    `json:"category"`
	Specific   string    `json:"specific"`
	Measurable string    `json:"measurable"`
	Achievable string    `json:"achievable"`
	Relevant   string    `json:"relevant"`
	TimeBound  string    `json:"time_bound"`
	Evaluated  string    `json:"evaluated"`
	Readjusted string    `json:"readjusted"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MapGoalToResponse converts a domain goal to an API response.
func MapGoalToResponse(goal *domain.Goal) GoalResponse {
	return GoalResponse{
		ID:         goal.ID.String(),
		TemplateID: goal.TemplateID,
		Stage:      string(goal.Stage),
		Dimension:  goal.Dimension,
		Category:   goal.Category,
		Specific:   goal.Specific,
		Measurable: goal.Measurable,
		Achievable: goal.Achievable,
		Relevant:   goal.Relevant,
		TimeBound:  goal.TimeBound,
		Evaluated:  goal.Evaluated,
		Readjusted: goal.Readjusted,
		Status:     string(goal.Status),
		CreatedAt:  goal.CreatedAt,
		UpdatedAt:  goal.UpdatedAt,
	}
}

// ListGoalsResponse is a page of goals.
type ListGoalsResponse struct {
	Data []GoalResponse `json:"data"`
}

// MapGoalsToListResponse converts a slice of goals to a list API response.
func MapGoalsToListResponse(goals []*domain.Goal) ListGoalsResponse {
	data := make([]GoalResponse, 0, len(goals))
	for _, goal := range goals {
		data = append(data, MapGoalToResponse(goal))
	}
	return ListGoalsResponse{Data: data}
}

// TemplateResponse represents a catalog goal template in API responses.
type TemplateResponse struct {
	ID          string `json:"id"`
	Stage       string `json:"stage"`
	Dimension   string `json:"dimension"`
	Category    string `json:"category"`
	MetaSmarter string `json:"meta_smarter"`
	PasosAccion string `json:"pasos_accion"`
}

// MapTemplateToResponse converts a catalog template to an API response.
func MapTemplateToResponse(template domain.Template) TemplateResponse {
	return TemplateResponse{
		ID:          template.ID,
		Stage:       template.StageID,
		Dimension:   template.Dimension,
		Category:    template.Category,
		MetaSmarter: template.MetaSmarter,
		PasosAccion: template.PasosAccion,
	}
}

// ListTemplatesResponse is the template catalog for a stage.
type ListTemplatesResponse struct {
	Data []TemplateResponse `json:"data"`
}

// MapTemplatesToListResponse converts catalog templates to a list API response.
func MapTemplatesToListResponse(templates []domain.Template) ListTemplatesResponse {
	data := make([]TemplateResponse, 0, len(templates))
	for _, template := range templates {
		data = append(data, MapTemplateToResponse(template))
	}
	return ListTemplatesResponse{Data: data}
}

// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/brujulapp/brujula/internal/validation"
)

// CreateGoalRequest contains the fields of a new personal goal. A goal can
// start from a catalog template (template_id set) or from scratch.
type CreateGoalRequest struct {
	TemplateID string `json:"template_id"`
	Stage      string `json:"stage"`
	Dimension  string `json:"dimension"`
	Category   string `json:"category"`
	Specific   string `json:"specific"`
	Measurable string `json:"measurable"`
	Achievable string `json:"achievable"`
	Relevant   string `json:"relevant"`
	TimeBound  string `json:"time_bound"`
	Evaluated  string `json:"evaluated"`
	Readjusted string `json:"readjusted"`
}

// Validate checks if the create goal request is valid.
func (r *CreateGoalRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Stage,
			validation.Required,
		),
		validation.Field(&r.Dimension,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&r.Category,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&r.Specific,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 2000),
		),
		validation.Field(&r.Measurable,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 2000),
		),
	)
}

// UpdateGoalRequest contains the editable SMARTER fields of a goal.
type UpdateGoalRequest struct {
	Specific   string `json:"specific"`
	Measurable string `json:"measurable"`
	Achievable string `json:"achievable"`
	Relevant   string `json:"relevant"`
	TimeBound  string `json:"time_bound"`
	Evaluated  string `json:"evaluated"`
	Readjusted string `json:"readjusted"`
}

// Validate checks if the update goal request is valid.
func (r *UpdateGoalRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Specific,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 2000),
		),
		validation.Field(&r.Measurable,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 2000),
		),
	)
}

// UpdateGoalStatusRequest contains a goal status transition.
type UpdateGoalStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks if the status request is well formed. Transition rules
// are enforced by the use case.
func (r *UpdateGoalStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

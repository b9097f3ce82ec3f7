// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/brujulapp/brujula/internal/validation"
)

// UpdateProfileRequest contains the editable student profile fields.
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Career   string `json:"career"`
	Semester int    `json:"semester"`
	Stage    string `json:"stage"`
}

// Validate checks if the update profile request is valid.
func (r *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FullName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Career,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Semester,
			validation.Required,
			validation.Min(1),
			validation.Max(20),
		),
		validation.Field(&r.Stage,
			validation.Required,
		),
	)
}

// SetMatriculaRequest contains the matriculation id to protect.
type SetMatriculaRequest struct {
	Matricula string `json:"matricula"`
}

// Validate checks if the matricula request is valid.
func (r *SetMatriculaRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Matricula,
			validation.Required,
			customValidation.NoWhitespace,
			customValidation.Matricula,
		),
	)
}

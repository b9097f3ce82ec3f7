// Package domain contains the core entities for stage-based diagnostic tests.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stage identifies the academic-progress phase a student is in. Each stage
// has its own diagnostic test and goal catalog subset.
type Stage string

// Academic stages in progression order.
const (
	StageExploracion     Stage = "exploracion"
	StageEnfoque         Stage = "enfoque"
	StageEspecializacion Stage = "especializacion"
	StageGraduacion      Stage = "graduacion"
)

// Stages lists all valid stages in progression order.
func Stages() []Stage {
	return []Stage{StageExploracion, StageEnfoque, StageEspecializacion, StageGraduacion}
}

// IsValid reports whether the stage is one of the known phases.
func (s Stage) IsValid() bool {
	switch s {
	case StageExploracion, StageEnfoque, StageEspecializacion, StageGraduacion:
		return true
	}
	return false
}

// Wellbeing dimensions used to categorize diagnostic questions and goals.
const (
	DimensionIntelectual = "Intelectual"
	DimensionOcupacional = "Ocupacional"
	DimensionEmocional   = "Emocional"
	DimensionSocial      = "Social"
	DimensionFisica      = "Física"
	DimensionEspiritual  = "Espiritual"
)

// Answer is one diagnostic response. Value is a Likert-style score where
// 1 means strongest need and 5 means weakest need. Answers are ephemeral;
// they are persisted only as part of a diagnostic result record.
type Answer struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// FocusArea tags which wellbeing axis a question probes. A question can
// touch multiple focus areas.
type FocusArea struct {
	Dimension string `json:"dimension"`
	Category  string `json:"category"`
	Label     string `json:"label"`
}

// Option is one selectable response for a question.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Question is a single diagnostic test question with its focus area tags.
type Question struct {
	Key        string      `json:"key"`
	Text       string      `json:"text"`
	Options    []Option    `json:"options"`
	FocusAreas []FocusArea `json:"focusAreas"`
}

// Test is the full diagnostic questionnaire for one stage. Loaded once
// from static configuration at process start and never mutated.
type Test struct {
	Stage     Stage      `json:"stage"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Result is a completed diagnostic attempt for a student.
type Result struct {
	ID        uuid.UUID
	StudentID uuid.UUID
	Stage     Stage
	Answers   []Answer
	CreatedAt time.Time
}

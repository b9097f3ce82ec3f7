// Package domain contains the entities for curated goal templates and
// personal SMARTER goals.
package domain

import (
	"time"

	"github.com/google/uuid"

	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
)

// Template is a curated, immutable catalog entry. Templates are loaded once
// at process start from static configuration and never mutated at runtime.
type Template struct {
	ID          string `json:"id"`
	Dimension   string `json:"dimension"`
	Category    string `json:"categoria"`
	MetaSmarter string `json:"metaSmarter"`
	PasosAccion string `json:"pasosAccion"`
	StageID     string `json:"stageId"`
}

// GoalStatus tracks the lifecycle of a personal goal.
type GoalStatus string

// Goal lifecycle states.
const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusArchived  GoalStatus = "archived"
)

// IsValid reports whether the status is a known lifecycle state.
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether a status change is allowed. Completed
// goals are terminal; archived goals can be reactivated.
func (s GoalStatus) CanTransitionTo(next GoalStatus) bool {
	switch s {
	case GoalStatusActive:
		return next == GoalStatusCompleted || next == GoalStatusArchived
	case GoalStatusArchived:
		return next == GoalStatusActive
	}
	return false
}

// Goal is a student's personal SMARTER goal, optionally derived from a
// catalog template.
type Goal struct {
	ID         uuid.UUID
	StudentID  uuid.UUID
	TemplateID string
	Stage      diagnosticsDomain.Stage
	Dimension  string
	Category   string

	// SMARTER fields.
	Specific   string
	Measurable string
	Achievable string
	Relevant   string
	TimeBound  string
	Evaluated  string
	Readjusted string

	Status    GoalStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

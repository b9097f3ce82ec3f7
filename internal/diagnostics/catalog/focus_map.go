package catalog

import (
	"github.com/brujulapp/brujula/internal/diagnostics/domain"
)

// FocusMap maps a diagnostic question key to the wellbeing focus areas the
// question probes. The same key may appear in tests for several stages; its
// focus areas are merged with duplicates removed.
type FocusMap struct {
	areas map[string][]domain.FocusArea
}

func newFocusMap() *FocusMap {
	return &FocusMap{areas: make(map[string][]domain.FocusArea)}
}

func (m *FocusMap) add(key string, areas []domain.FocusArea) {
	for _, area := range areas {
		if m.contains(key, area) {
			continue
		}
		m.areas[key] = append(m.areas[key], area)
	}
}

func (m *FocusMap) contains(key string, area domain.FocusArea) bool {
	for _, existing := range m.areas[key] {
		if existing.Dimension == area.Dimension && existing.Category == area.Category {
			return true
		}
	}
	return false
}

// Lookup returns the focus areas for a question key. Unknown keys yield an
// empty list; callers ignore such answers rather than treating them as
// errors.
func (m *FocusMap) Lookup(questionKey string) []domain.FocusArea {
	return m.areas[questionKey]
}

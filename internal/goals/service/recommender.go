// Package service implements the goal recommendation engine.
package service

import (
	"sort"

	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	"github.com/brujulapp/brujula/internal/goals/domain"
)

// DefaultRecommendationLimit caps a recommendation list when the caller
// does not specify a limit.
const DefaultRecommendationLimit = 6

// FocusLookup resolves a diagnostic question key to its wellbeing focus
// areas. Unknown keys yield an empty list.
type FocusLookup interface {
	Lookup(questionKey string) []diagnosticsDomain.FocusArea
}

// Recommender ranks goal templates against diagnostic answers. It is a
// pure function of its inputs: no randomness, no I/O, identical inputs
// always yield identical output including order.
type Recommender struct {
	focusMap FocusLookup
}

// NewRecommender creates a recommender over a focus map.
func NewRecommender(focusMap FocusLookup) *Recommender {
	return &Recommender{focusMap: focusMap}
}

// Recommend scores templates by accumulated need weight and returns the
// top ones.
//
// Answers use a 1-5 Likert scale where 1 is the strongest need. Values
// above 3 signal the student already feels capable in that area and
// contribute nothing. Each remaining answer adds weight 4-value (clamped
// to [0,3]) to every dimension|category focus area its question touches.
// Templates whose area accumulated no positive weight are dropped; the
// rest sort by score descending with catalog index as the tie-break, so
// equal-score templates keep their catalog order.
func (r *Recommender) Recommend(
	answers []diagnosticsDomain.Answer,
	templates []domain.Template,
	limit int,
) []domain.Template {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	areaScores := make(map[string]int)
	for _, answer := range answers {
		if answer.Value > 3 {
			continue
		}

		areas := r.focusMap.Lookup(answer.Key)
		if len(areas) == 0 {
			continue
		}

		weight := weightFor(answer.Value)
		for _, area := range areas {
			areaScores[areaKey(area.Dimension, area.Category)] += weight
		}
	}

	if !hasPositiveScore(areaScores) {
		return []domain.Template{}
	}

	type scoredTemplate struct {
		template domain.Template
		score    int
		index    int
	}

	scored := make([]scoredTemplate, 0, len(templates))
	for i, template := range templates {
		score := areaScores[areaKey(template.Dimension, template.Category)]
		if score <= 0 {
			continue
		}
		scored = append(scored, scoredTemplate{template: template, score: score, index: i})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].index < scored[j].index
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	result := make([]domain.Template, 0, len(scored))
	for _, s := range scored {
		result = append(result, s.template)
	}
	return result
}

// weightFor maps a Likert value to a need weight: 3 for value 1, 2 for
// value 2, 1 for value 3, 0 otherwise. Out-of-range low values clamp to
// the strongest need rather than failing; answers come from semi-trusted
// client input and must never crash the recommendation path.
func weightFor(value int) int {
	if value < 1 {
		value = 1
	}
	weight := 4 - value
	if weight < 0 {
		return 0
	}
	return weight
}

func areaKey(dimension, category string) string {
	return dimension + "|" + category
}

func hasPositiveScore(areaScores map[string]int) bool {
	for _, score := range areaScores {
		if score > 0 {
			return true
		}
	}
	return false
}

// Package catalog loads and validates the static diagnostic test
// definitions embedded in the binary.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	validation "github.com/jellydator/validation"

	"github.com/brujulapp/brujula/internal/diagnostics/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
)

//go:embed data/*.json
var dataFS embed.FS

// Catalog holds every stage's diagnostic test plus the focus map derived
// from them. Built once at process start; immutable afterwards.
type Catalog struct {
	tests    map[domain.Stage]*domain.Test
	focusMap *FocusMap
}

// Load parses and validates all embedded test definitions. Schema problems
// (unknown stage, empty option lists, missing focus areas) fail here, at
// load time, never at request time.
func Load() (*Catalog, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, apperrors.Wrap(domain.ErrInvalidCatalog, err.Error())
	}

	catalog := &Catalog{
		tests:    make(map[domain.Stage]*domain.Test),
		focusMap: newFocusMap(),
	}

	for _, entry := range entries {
		raw, err := dataFS.ReadFile("data/" + entry.Name())
		if err != nil {
			return nil, apperrors.Wrap(domain.ErrInvalidCatalog, err.Error())
		}

		var test domain.Test
		if err := json.Unmarshal(raw, &test); err != nil {
			return nil, apperrors.Wrap(domain.ErrInvalidCatalog, fmt.Sprintf("%s: %s", entry.Name(), err.Error()))
		}

		if err := validateTest(&test); err != nil {
			return nil, apperrors.Wrap(domain.ErrInvalidCatalog, fmt.Sprintf("%s: %s", entry.Name(), err.Error()))
		}

		if _, exists := catalog.tests[test.Stage]; exists {
			return nil, apperrors.Wrap(
				domain.ErrInvalidCatalog,
				fmt.Sprintf("duplicate test definition for stage %q", test.Stage),
			)
		}

		catalog.tests[test.Stage] = &test
		for _, question := range test.Questions {
			catalog.focusMap.add(question.Key, question.FocusAreas)
		}
	}

	if len(catalog.tests) == 0 {
		return nil, apperrors.Wrap(domain.ErrInvalidCatalog, "no test definitions found")
	}

	return catalog, nil
}

// TestForStage returns the diagnostic test for a stage.
func (c *Catalog) TestForStage(stage domain.Stage) (*domain.Test, error) {
	test, ok := c.tests[stage]
	if !ok {
		return nil, apperrors.Wrap(domain.ErrUnknownStage, string(stage))
	}
	return test, nil
}

// FocusMap returns the question-key to focus-area mapping built from all
// stage definitions.
func (c *Catalog) FocusMap() *FocusMap {
	return c.focusMap
}

func validateTest(test *domain.Test) error {
	return validation.ValidateStruct(test,
		validation.Field(&test.Stage, validation.Required, stageRule),
		validation.Field(&test.Title, validation.Required),
		validation.Field(&test.Questions,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.By(validateQuestion)),
		),
	)
}

var stageRule = validation.By(func(value interface{}) error {
	stage, ok := value.(domain.Stage)
	if !ok || !stage.IsValid() {
		return validation.NewError("validation_stage", "must be a known stage")
	}
	return nil
})

func validateQuestion(value interface{}) error {
	question, ok := value.(domain.Question)
	if !ok {
		return validation.NewError("validation_question_type", "must be a question")
	}
	return validation.ValidateStruct(&question,
		validation.Field(&question.Key, validation.Required),
		validation.Field(&question.Text, validation.Required),
		validation.Field(&question.Options, validation.Required, validation.Length(2, 0)),
		validation.Field(&question.FocusAreas,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.By(validateFocusArea)),
		),
	)
}

func validateFocusArea(value interface{}) error {
	area, ok := value.(domain.FocusArea)
	if !ok {
		return validation.NewError("validation_focus_area_type", "must be a focus area")
	}
	return validation.ValidateStruct(&area,
		validation.Field(&area.Dimension, validation.Required),
		validation.Field(&area.Category, validation.Required),
	)
}

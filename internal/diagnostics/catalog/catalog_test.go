package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brujulapp/brujula/internal/diagnostics/domain"
)

func TestLoad(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	t.Run("AllStagesPresent", func(t *testing.T) {
		for _, stage := range domain.Stages() {
			test, err := catalog.TestForStage(stage)
			require.NoError(t, err)
			assert.Equal(t, stage, test.Stage)
			assert.NotEmpty(t, test.Title)
			assert.NotEmpty(t, test.Questions)
		}
	})

	t.Run("UnknownStage", func(t *testing.T) {
		_, err := catalog.TestForStage(domain.Stage("posgrado"))
		assert.ErrorIs(t, err, domain.ErrUnknownStage)
	})

	t.Run("QuestionsAreWellFormed", func(t *testing.T) {
		for _, stage := range domain.Stages() {
			test, err := catalog.TestForStage(stage)
			require.NoError(t, err)
			for _, question := range test.Questions {
				assert.NotEmpty(t, question.Key)
				assert.GreaterOrEqual(t, len(question.Options), 2)
				assert.NotEmpty(t, question.FocusAreas)
			}
		}
	})
}

func TestCatalog_FocusMap(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)
	focusMap := catalog.FocusMap()

	t.Run("KnownKey", func(t *testing.T) {
		areas := focusMap.Lookup("carrera")
		require.NotEmpty(t, areas)
		assert.Equal(t, domain.DimensionOcupacional, areas[0].Dimension)
		assert.Equal(t, "carrera", areas[0].Category)
	})

	t.Run("MultiAreaKey", func(t *testing.T) {
		areas := focusMap.Lookup("adaptacion")
		assert.Len(t, areas, 2)
	})

	t.Run("UnknownKeyYieldsEmpty", func(t *testing.T) {
		assert.Empty(t, focusMap.Lookup("no-such-question"))
	})

	t.Run("RepeatedKeyAcrossStagesIsDeduplicated", func(t *testing.T) {
		// "academico" appears in three stage tests with the same focus area.
		areas := focusMap.Lookup("academico")
		assert.Len(t, areas, 1)
		assert.Equal(t, domain.DimensionIntelectual, areas[0].Dimension)
		assert.Equal(t, "academico", areas[0].Category)
	})
}

func TestValidateTest(t *testing.T) {
	valid := func() *domain.Test {
		return &domain.Test{
			Stage: domain.StageExploracion,
			Title: "Brújula de exploración",
			Questions: []domain.Question{
				{
					Key:  "academico",
					Text: "¿Qué tan preparado te sientes?",
					Options: []domain.Option{
						{Value: 1, Label: "Nada"},
						{Value: 5, Label: "Mucho"},
					},
					FocusAreas: []domain.FocusArea{
						{Dimension: domain.DimensionIntelectual, Category: "academico", Label: "Hábitos"},
					},
				},
			},
		}
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, validateTest(valid()))
	})

	t.Run("UnknownStage", func(t *testing.T) {
		test := valid()
		test.Stage = domain.Stage("intercambio")
		assert.Error(t, validateTest(test))
	})

	t.Run("NoQuestions", func(t *testing.T) {
		test := valid()
		test.Questions = nil
		assert.Error(t, validateTest(test))
	})

	t.Run("SingleOption", func(t *testing.T) {
		test := valid()
		test.Questions[0].Options = test.Questions[0].Options[:1]
		assert.Error(t, validateTest(test))
	})

	t.Run("NoFocusAreas", func(t *testing.T) {
		test := valid()
		test.Questions[0].FocusAreas = nil
		assert.Error(t, validateTest(test))
	})

	t.Run("FocusAreaMissingCategory", func(t *testing.T) {
		test := valid()
		test.Questions[0].FocusAreas[0].Category = ""
		assert.Error(t, validateTest(test))
	})
}

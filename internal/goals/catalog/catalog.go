// Package catalog loads and validates the static goal template catalog
// embedded in the binary.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	validation "github.com/jellydator/validation"

	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	apperrors "github.com/brujulapp/brujula/internal/errors"
	"github.com/brujulapp/brujula/internal/goals/domain"
)

//go:embed data/*.json
var dataFS embed.FS

// stageFiles fixes the load order so the flattened template list (and with
// it the ranking tie-break on catalog index) is stable across processes.
var stageFiles = []string{
	"data/exploracion.json",
	"data/enfoque.json",
	"data/especializacion.json",
	"data/graduacion.json",
}

type stageCatalog struct {
	StageID string            `json:"stageId"`
	Goals   []domain.Template `json:"goals"`
}

// Catalog holds the flattened, validated goal template list.
type Catalog struct {
	templates []domain.Template
	byStage   map[diagnosticsDomain.Stage][]domain.Template
}

// Load parses and validates all embedded per-stage catalogs. Template ids
// must be globally unique; validation failures are fatal at load time.
func Load() (*Catalog, error) {
	catalog := &Catalog{
		byStage: make(map[diagnosticsDomain.Stage][]domain.Template),
	}
	seen := make(map[string]string)

	for _, name := range stageFiles {
		raw, err := dataFS.ReadFile(name)
		if err != nil {
			return nil, apperrors.Wrap(domain.ErrInvalidTemplateCatalog, err.Error())
		}

		var stage stageCatalog
		if err := json.Unmarshal(raw, &stage); err != nil {
			return nil, apperrors.Wrap(domain.ErrInvalidTemplateCatalog, fmt.Sprintf("%s: %s", name, err.Error()))
		}

		if !diagnosticsDomain.Stage(stage.StageID).IsValid() {
			return nil, apperrors.Wrap(
				domain.ErrInvalidTemplateCatalog,
				fmt.Sprintf("%s: unknown stage %q", name, stage.StageID),
			)
		}

		for i := range stage.Goals {
			template := stage.Goals[i]
			template.StageID = stage.StageID

			if err := validateTemplate(&template); err != nil {
				return nil, apperrors.Wrap(
					domain.ErrInvalidTemplateCatalog,
					fmt.Sprintf("%s: template %q: %s", name, template.ID, err.Error()),
				)
			}

			if previous, exists := seen[template.ID]; exists {
				return nil, apperrors.Wrap(
					domain.ErrInvalidTemplateCatalog,
					fmt.Sprintf("duplicate template id %q in %s and %s", template.ID, previous, name),
				)
			}
			seen[template.ID] = name

			catalog.templates = append(catalog.templates, template)
			stageKey := diagnosticsDomain.Stage(stage.StageID)
			catalog.byStage[stageKey] = append(catalog.byStage[stageKey], template)
		}
	}

	if len(catalog.templates) == 0 {
		return nil, apperrors.Wrap(domain.ErrInvalidTemplateCatalog, "no templates found")
	}

	return catalog, nil
}

// Templates returns the full flattened catalog in load order.
func (c *Catalog) Templates() []domain.Template {
	return c.templates
}

// TemplatesForStage returns the templates for one stage in load order.
// Unknown stages yield an empty list.
func (c *Catalog) TemplatesForStage(stage diagnosticsDomain.Stage) []domain.Template {
	return c.byStage[stage]
}

// TemplateByID returns a template by id.
func (c *Catalog) TemplateByID(id string) (domain.Template, bool) {
	for _, template := range c.templates {
		if template.ID == id {
			return template, true
		}
	}
	return domain.Template{}, false
}

func validateTemplate(template *domain.Template) error {
	return validation.ValidateStruct(template,
		validation.Field(&template.ID, validation.Required),
		validation.Field(&template.Dimension, validation.Required),
		validation.Field(&template.Category, validation.Required),
		validation.Field(&template.MetaSmarter, validation.Required),
		validation.Field(&template.PasosAccion, validation.Required),
		validation.Field(&template.StageID, validation.Required),
	)
}

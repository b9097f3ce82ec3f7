package usecase

import (
	diagnosticsDomain "github.com/brujulapp/brujula/internal/diagnostics/domain"
	"github.com/brujulapp/brujula/internal/goals/catalog"
	"github.com/brujulapp/brujula/internal/goals/domain"
	"github.com/brujulapp/brujula/internal/goals/service"
)

// recommendationUseCase implements RecommendationUseCase over the static
// template catalog and the recommender.
type recommendationUseCase struct {
	catalog     *catalog.Catalog
	recommender *service.Recommender
}

// NewRecommendationUseCase creates a new RecommendationUseCase.
func NewRecommendationUseCase(
	templateCatalog *catalog.Catalog,
	recommender *service.Recommender,
) RecommendationUseCase {
	return &recommendationUseCase{
		catalog:     templateCatalog,
		recommender: recommender,
	}
}

// Recommend ranks the stage's templates against the answers. The ranking
// is deterministic for identical inputs.
func (r *recommendationUseCase) Recommend(
	stage diagnosticsDomain.Stage,
	answers []diagnosticsDomain.Answer,
	limit int,
) ([]domain.Template, error) {
	if !stage.IsValid() {
		return nil, diagnosticsDomain.ErrUnknownStage
	}

	templates := r.catalog.TemplatesForStage(stage)
	return r.recommender.Recommend(answers, templates, limit), nil
}

// TemplatesForStage returns the full catalog subset for a stage.
func (r *recommendationUseCase) TemplatesForStage(
	stage diagnosticsDomain.Stage,
) ([]domain.Template, error) {
	if !stage.IsValid() {
		return nil, diagnosticsDomain.ErrUnknownStage
	}
	return r.catalog.TemplatesForStage(stage), nil
}

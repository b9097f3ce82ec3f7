package app

import (
	"fmt"

	goalsCatalog "github.com/brujulapp/brujula/internal/goals/catalog"
	goalsHTTP "github.com/brujulapp/brujula/internal/goals/http"
	goalsRepository "github.com/brujulapp/brujula/internal/goals/repository"
	goalsService "github.com/brujulapp/brujula/internal/goals/service"
	goalsUseCase "github.com/brujulapp/brujula/internal/goals/usecase"
)

// GoalCatalog returns the embedded goal template catalog.
func (c *Container) GoalCatalog() (*goalsCatalog.Catalog, error) {
	var err error
	c.goalCatalogInit.Do(func() {
		c.goalCatalog, err = goalsCatalog.Load()
		if err != nil {
			c.initErrors["goalCatalog"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["goalCatalog"]; exists {
		return nil, storedErr
	}
	return c.goalCatalog, nil
}

// Recommender returns the template ranking service.
func (c *Container) Recommender() (*goalsService.Recommender, error) {
	var err error
	c.recommenderInit.Do(func() {
		var recommender *goalsService.Recommender
		recommender, err = c.initRecommender()
		if err != nil {
			c.initErrors["recommender"] = err
			return
		}
		c.recommender = recommender
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recommender"]; exists {
		return nil, storedErr
	}
	return c.recommender, nil
}

// GoalRepository returns the goal repository based on database driver.
func (c *Container) GoalRepository() (goalsUseCase.GoalRepository, error) {
	var err error
	c.goalRepositoryInit.Do(func() {
		c.goalRepository, err = c.initGoalRepository()
		if err != nil {
			c.initErrors["goalRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["goalRepository"]; exists {
		return nil, storedErr
	}
	return c.goalRepository, nil
}

// GoalUseCase returns the goal use case.
func (c *Container) GoalUseCase() (goalsUseCase.GoalUseCase, error) {
	var err error
	c.goalUseCaseInit.Do(func() {
		var goalRepo goalsUseCase.GoalRepository
		goalRepo, err = c.GoalRepository()
		if err != nil {
			c.initErrors["goalUseCase"] = err
			return
		}
		c.goalUseCase = goalsUseCase.NewGoalUseCase(goalRepo)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["goalUseCase"]; exists {
		return nil, storedErr
	}
	return c.goalUseCase, nil
}

// RecommendationUseCase returns the goal recommendation use case.
func (c *Container) RecommendationUseCase() (goalsUseCase.RecommendationUseCase, error) {
	var err error
	c.recommendationUseCaseInit.Do(func() {
		c.recommendationUseCase, err = c.initRecommendationUseCase()
		if err != nil {
			c.initErrors["recommendationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recommendationUseCase"]; exists {
		return nil, storedErr
	}
	return c.recommendationUseCase, nil
}

// GoalHandler returns the goal HTTP handler.
func (c *Container) GoalHandler() (*goalsHTTP.GoalHandler, error) {
	goalUseCase, err := c.GoalUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get goal use case for goal handler: %w", err)
	}

	recommendationUseCase, err := c.RecommendationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation use case for goal handler: %w", err)
	}

	return goalsHTTP.NewGoalHandler(goalUseCase, recommendationUseCase, c.Logger()), nil
}

// initRecommender builds the recommender over the diagnostic focus map.
func (c *Container) initRecommender() (*goalsService.Recommender, error) {
	diagnosticCatalog, err := c.DiagnosticCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnostic catalog for recommender: %w", err)
	}
	return goalsService.NewRecommender(diagnosticCatalog.FocusMap()), nil
}

// initGoalRepository creates the goal repository instance.
func (c *Container) initGoalRepository() (goalsUseCase.GoalRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for goal repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return goalsRepository.NewMySQLGoalRepository(db), nil
	case "postgres":
		return goalsRepository.NewPostgreSQLGoalRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRecommendationUseCase creates the recommendation use case.
func (c *Container) initRecommendationUseCase() (goalsUseCase.RecommendationUseCase, error) {
	goalCatalog, err := c.GoalCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get goal catalog for recommendation use case: %w", err)
	}

	recommender, err := c.Recommender()
	if err != nil {
		return nil, fmt.Errorf("failed to get recommender for recommendation use case: %w", err)
	}

	return goalsUseCase.NewRecommendationUseCase(goalCatalog, recommender), nil
}

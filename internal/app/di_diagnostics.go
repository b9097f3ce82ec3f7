package app

import (
	"fmt"

	diagnosticsCatalog "github.com/brujulapp/brujula/internal/diagnostics/catalog"
	diagnosticsHTTP "github.com/brujulapp/brujula/internal/diagnostics/http"
	diagnosticsRepository "github.com/brujulapp/brujula/internal/diagnostics/repository"
	diagnosticsUseCase "github.com/brujulapp/brujula/internal/diagnostics/usecase"
)

// DiagnosticCatalog returns the embedded diagnostic test catalog.
func (c *Container) DiagnosticCatalog() (*diagnosticsCatalog.Catalog, error) {
	var err error
	c.diagnosticCatalogInit.Do(func() {
		c.diagnosticCatalog, err = diagnosticsCatalog.Load()
		if err != nil {
			c.initErrors["diagnosticCatalog"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["diagnosticCatalog"]; exists {
		return nil, storedErr
	}
	return c.diagnosticCatalog, nil
}

// ResultRepository returns the diagnostic result repository based on database driver.
func (c *Container) ResultRepository() (diagnosticsUseCase.ResultRepository, error) {
	var err error
	c.resultRepositoryInit.Do(func() {
		c.resultRepository, err = c.initResultRepository()
		if err != nil {
			c.initErrors["resultRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resultRepository"]; exists {
		return nil, storedErr
	}
	return c.resultRepository, nil
}

// DiagnosticUseCase returns the diagnostic submission use case.
func (c *Container) DiagnosticUseCase() (diagnosticsUseCase.DiagnosticUseCase, error) {
	var err error
	c.diagnosticUseCaseInit.Do(func() {
		c.diagnosticUseCase, err = c.initDiagnosticUseCase()
		if err != nil {
			c.initErrors["diagnosticUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["diagnosticUseCase"]; exists {
		return nil, storedErr
	}
	return c.diagnosticUseCase, nil
}

// DiagnosticHandler returns the diagnostic HTTP handler.
func (c *Container) DiagnosticHandler() (*diagnosticsHTTP.DiagnosticHandler, error) {
	diagnosticUseCase, err := c.DiagnosticUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnostic use case for diagnostic handler: %w", err)
	}
	return diagnosticsHTTP.NewDiagnosticHandler(diagnosticUseCase, c.Logger()), nil
}

// initResultRepository creates the diagnostic result repository instance.
func (c *Container) initResultRepository() (diagnosticsUseCase.ResultRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for result repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return diagnosticsRepository.NewMySQLResultRepository(db), nil
	case "postgres":
		return diagnosticsRepository.NewPostgreSQLResultRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initDiagnosticUseCase creates the diagnostic use case with all its dependencies.
func (c *Container) initDiagnosticUseCase() (diagnosticsUseCase.DiagnosticUseCase, error) {
	resultRepo, err := c.ResultRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get result repository for diagnostic use case: %w", err)
	}

	diagnosticCatalog, err := c.DiagnosticCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnostic catalog for diagnostic use case: %w", err)
	}

	recommendationUseCase, err := c.RecommendationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation use case for diagnostic use case: %w", err)
	}

	return diagnosticsUseCase.NewDiagnosticUseCase(
		resultRepo,
		diagnosticCatalog,
		recommendationUseCase,
		c.config.RecommendationLimit,
	), nil
}

package app

import (
	"fmt"

	studentsHTTP "github.com/brujulapp/brujula/internal/students/http"
	studentsRepository "github.com/brujulapp/brujula/internal/students/repository"
	studentsUseCase "github.com/brujulapp/brujula/internal/students/usecase"
)

// StudentRepository returns the student repository based on database driver.
func (c *Container) StudentRepository() (studentsUseCase.StudentRepository, error) {
	var err error
	c.studentRepositoryInit.Do(func() {
		c.studentRepository, err = c.initStudentRepository()
		if err != nil {
			c.initErrors["studentRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["studentRepository"]; exists {
		return nil, storedErr
	}
	return c.studentRepository, nil
}

// StudentUseCase returns the student profile use case.
func (c *Container) StudentUseCase() (studentsUseCase.StudentUseCase, error) {
	var err error
	c.studentUseCaseInit.Do(func() {
		c.studentUseCase, err = c.initStudentUseCase()
		if err != nil {
			c.initErrors["studentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["studentUseCase"]; exists {
		return nil, storedErr
	}
	return c.studentUseCase, nil
}

// AdminStudentUseCase returns the administrator-facing student use case.
func (c *Container) AdminStudentUseCase() (studentsUseCase.AdminStudentUseCase, error) {
	var err error
	c.adminStudentUseCaseInit.Do(func() {
		c.adminStudentUseCase, err = c.initAdminStudentUseCase()
		if err != nil {
			c.initErrors["adminStudentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["adminStudentUseCase"]; exists {
		return nil, storedErr
	}
	return c.adminStudentUseCase, nil
}

// StudentHandler returns the student profile HTTP handler.
func (c *Container) StudentHandler() (*studentsHTTP.StudentHandler, error) {
	studentUseCase, err := c.StudentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get student use case for student handler: %w", err)
	}
	return studentsHTTP.NewStudentHandler(studentUseCase, c.Logger()), nil
}

// AdminStudentHandler returns the administrator student HTTP handler.
func (c *Container) AdminStudentHandler() (*studentsHTTP.AdminStudentHandler, error) {
	adminUseCase, err := c.AdminStudentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin student use case for admin student handler: %w", err)
	}
	return studentsHTTP.NewAdminStudentHandler(adminUseCase, c.Logger()), nil
}

// initStudentRepository creates the student repository instance.
func (c *Container) initStudentRepository() (studentsUseCase.StudentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for student repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return studentsRepository.NewMySQLStudentRepository(db), nil
	case "postgres":
		return studentsRepository.NewPostgreSQLStudentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initStudentUseCase creates the student use case with all its dependencies.
func (c *Container) initStudentUseCase() (studentsUseCase.StudentUseCase, error) {
	studentRepo, err := c.StudentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get student repository for student use case: %w", err)
	}

	keyRing, err := c.KeyRing()
	if err != nil {
		return nil, fmt.Errorf("failed to get key ring for student use case: %w", err)
	}

	return studentsUseCase.NewStudentUseCase(studentRepo, c.EnvelopeCipher(), keyRing), nil
}

// initAdminStudentUseCase creates the admin student use case with all its
// dependencies: the reveal budget, the audit trail and the goal counter
// used by the CSV export.
func (c *Container) initAdminStudentUseCase() (studentsUseCase.AdminStudentUseCase, error) {
	studentRepo, err := c.StudentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get student repository for admin student use case: %w", err)
	}

	goalRepo, err := c.GoalRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get goal repository for admin student use case: %w", err)
	}

	keyRing, err := c.KeyRing()
	if err != nil {
		return nil, fmt.Errorf("failed to get key ring for admin student use case: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for admin student use case: %w", err)
	}

	return studentsUseCase.NewAdminStudentUseCase(
		studentRepo,
		goalRepo,
		c.EnvelopeCipher(),
		keyRing,
		c.RevealLimiter(),
		auditLogUseCase,
		c.Logger(),
		c.config.RevealRateLimit,
		c.config.RevealRateWindow,
	), nil
}

package app

import (
	"fmt"

	apikeyRepository "github.com/allisson/pqvault/internal/apikey/repository"
	apikeyService "github.com/allisson/pqvault/internal/apikey/service"
	apikeyUseCase "github.com/allisson/pqvault/internal/apikey/usecase"
)

// APIKeyRepository returns the API key repository based on database driver.
func (c *Container) APIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	c.apiKeyRepoInit.Do(func() {
		repo, err := c.initAPIKeyRepository()
		if err != nil {
			c.initErrors["apiKeyRepo"] = err
			return
		}
		c.apiKeyRepo = repo
	})
	if storedErr, exists := c.initErrors["apiKeyRepo"]; exists {
		return nil, storedErr
	}
	return c.apiKeyRepo, nil
}

// KeyGenerator returns the API key generator service.
func (c *Container) KeyGenerator() apikeyService.KeyGenerator {
	c.keyGeneratorInit.Do(func() {
		c.keyGenerator = apikeyService.NewKeyGenerator()
	})
	return c.keyGenerator
}

// APIKeyUseCase returns the API key use case, wrapped with metrics when
// metrics are enabled.
func (c *Container) APIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	c.apiKeyUCInit.Do(func() {
		useCase, err := c.initAPIKeyUseCase()
		if err != nil {
			c.initErrors["apiKeyUseCase"] = err
			return
		}
		c.apiKeyUC = useCase
	})
	if storedErr, exists := c.initErrors["apiKeyUseCase"]; exists {
		return nil, storedErr
	}
	return c.apiKeyUC, nil
}

// initAPIKeyRepository creates the API key repository instance.
func (c *Container) initAPIKeyRepository() (apikeyUseCase.APIKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for api key repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return apikeyRepository.NewMySQLAPIKeyRepository(db), nil
	case "postgres":
		return apikeyRepository.NewPostgreSQLAPIKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAPIKeyUseCase creates the API key use case with all its dependencies.
func (c *Container) initAPIKeyUseCase() (apikeyUseCase.APIKeyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for api key use case: %w", err)
	}

	apiKeyRepo, err := c.APIKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get api key repository for api key use case: %w", err)
	}

	useCase := apikeyUseCase.NewAPIKeyUseCase(
		txManager,
		apiKeyRepo,
		c.KeyGenerator(),
		c.config.APIKeyDefaultExpiryDays,
		c.config.APIKeyMaxExpiryDays,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for api key use case: %w", err)
		}
		useCase = apikeyUseCase.NewAPIKeyUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

package app

import (
	"fmt"

	"github.com/allisson/siteapi/internal/cache"
	"github.com/allisson/siteapi/internal/metrics"
	registrationHTTP "github.com/allisson/siteapi/internal/registration/http"
	registrationRepository "github.com/allisson/siteapi/internal/registration/repository"
	registrationService "github.com/allisson/siteapi/internal/registration/service"
	registrationUseCase "github.com/allisson/siteapi/internal/registration/usecase"
)

const guardCacheName = "registration_guard"

// GuardCache returns the in-memory cache backing the duplicate guard fast path.
func (c *Container) GuardCache() (*cache.MemoryCache, error) {
	c.guardCacheInit.Do(func() {
		var err error
		c.guardCache, err = c.initGuardCache()
		c.setInitError("guardCache", err)
	})
	if err := c.initError("guardCache"); err != nil {
		return nil, err
	}
	return c.guardCache, nil
}

// DuplicateGuard returns the duplicate submission guard.
func (c *Container) DuplicateGuard() (*registrationService.DuplicateGuard, error) {
	c.duplicateGuardInit.Do(func() {
		var err error
		c.duplicateGuard, err = c.initDuplicateGuard()
		c.setInitError("duplicateGuard", err)
	})
	if err := c.initError("duplicateGuard"); err != nil {
		return nil, err
	}
	return c.duplicateGuard, nil
}

// RegistrationRepository returns the registration repository for the configured driver.
func (c *Container) RegistrationRepository() (registrationUseCase.RegistrationRepository, error) {
	c.registrationRepositoryInit.Do(func() {
		var err error
		c.registrationRepository, err = c.initRegistrationRepository()
		c.setInitError("registrationRepository", err)
	})
	if err := c.initError("registrationRepository"); err != nil {
		return nil, err
	}
	return c.registrationRepository, nil
}

// RegistrationUseCase returns the registration use case.
func (c *Container) RegistrationUseCase() (registrationUseCase.RegistrationUseCase, error) {
	c.registrationUseCaseInit.Do(func() {
		var err error
		c.registrationUseCase, err = c.initRegistrationUseCase()
		c.setInitError("registrationUseCase", err)
	})
	if err := c.initError("registrationUseCase"); err != nil {
		return nil, err
	}
	return c.registrationUseCase, nil
}

// RegistrationHandler returns the registration HTTP handler.
func (c *Container) RegistrationHandler() (*registrationHTTP.RegistrationHandler, error) {
	c.registrationHandlerInit.Do(func() {
		useCase, err := c.RegistrationUseCase()
		if err != nil {
			c.setInitError(
				"registrationHandler",
				fmt.Errorf("failed to get registration use case for registration handler: %w", err),
			)
			return
		}
		c.registrationHandler = registrationHTTP.NewRegistrationHandler(useCase, c.Logger())
	})
	if err := c.initError("registrationHandler"); err != nil {
		return nil, err
	}
	return c.registrationHandler, nil
}

func (c *Container) initGuardCache() (*cache.MemoryCache, error) {
	memoryCache := cache.NewMemoryCache(
		c.config.CacheCleanupInterval,
		cache.WithMaxEntries(c.config.CacheMaxEntries),
	)

	provider, err := c.MetricsProvider()
	if err != nil {
		memoryCache.Close()
		return nil, fmt.Errorf("failed to get metrics provider for guard cache: %w", err)
	}
	if provider != nil {
		err := metrics.RegisterCacheMetrics(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
			guardCacheName,
			memoryCache.Stats,
		)
		if err != nil {
			memoryCache.Close()
			return nil, fmt.Errorf("failed to register guard cache metrics: %w", err)
		}
	}

	return memoryCache, nil
}

func (c *Container) initDuplicateGuard() (*registrationService.DuplicateGuard, error) {
	guardCache, err := c.GuardCache()
	if err != nil {
		return nil, err
	}

	repository, err := c.RegistrationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get registration repository for duplicate guard: %w", err)
	}

	piiCipher, err := c.PiiCipher()
	if err != nil {
		return nil, err
	}

	return registrationService.NewDuplicateGuard(
		guardCache,
		repository,
		piiCipher,
		c.config.DuplicateWindow,
		c.Logger(),
	), nil
}

func (c *Container) initRegistrationRepository() (registrationUseCase.RegistrationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for registration repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return registrationRepository.NewPostgreSQLRegistrationRepository(db), nil
	case "mysql":
		return registrationRepository.NewMySQLRegistrationRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initRegistrationUseCase() (registrationUseCase.RegistrationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for registration use case: %w", err)
	}

	repository, err := c.RegistrationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get registration repository for registration use case: %w", err)
	}

	guard, err := c.DuplicateGuard()
	if err != nil {
		return nil, err
	}

	piiCipher, err := c.PiiCipher()
	if err != nil {
		return nil, err
	}

	baseUseCase := registrationUseCase.NewRegistrationUseCase(txManager, repository, guard, piiCipher, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for registration use case: %w", err)
		}
		return registrationUseCase.NewRegistrationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

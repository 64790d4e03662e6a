package app

import (
	"fmt"

	authHTTP "github.com/allisson/siteapi/internal/auth/http"
	authRepository "github.com/allisson/siteapi/internal/auth/repository"
	authService "github.com/allisson/siteapi/internal/auth/service"
	authUseCase "github.com/allisson/siteapi/internal/auth/usecase"
)

// PasswordHasher returns the password hasher for the configured algorithm.
func (c *Container) PasswordHasher() (authService.PasswordHasher, error) {
	c.passwordHasherInit.Do(func() {
		var err error
		c.passwordHasher, err = authService.NewPasswordHasher(
			c.config.PasswordHashAlgorithm,
			c.config.PasswordHashConcurrency,
		)
		if err != nil {
			err = fmt.Errorf("failed to create password hasher: %w", err)
		}
		c.setInitError("passwordHasher", err)
	})
	if err := c.initError("passwordHasher"); err != nil {
		return nil, err
	}
	return c.passwordHasher, nil
}

// TokenCodec returns the bearer token codec.
func (c *Container) TokenCodec() (authService.TokenCodec, error) {
	c.tokenCodecInit.Do(func() {
		var err error
		c.tokenCodec, err = c.initTokenCodec()
		c.setInitError("tokenCodec", err)
	})
	if err := c.initError("tokenCodec"); err != nil {
		return nil, err
	}
	return c.tokenCodec, nil
}

// AccountRepository returns the account repository for the configured driver.
func (c *Container) AccountRepository() (authUseCase.AccountRepository, error) {
	c.accountRepositoryInit.Do(func() {
		var err error
		c.accountRepository, err = c.initAccountRepository()
		c.setInitError("accountRepository", err)
	})
	if err := c.initError("accountRepository"); err != nil {
		return nil, err
	}
	return c.accountRepository, nil
}

// AuthUseCase returns the login and authorization use case.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	c.authUseCaseInit.Do(func() {
		var err error
		c.authUseCase, err = c.initAuthUseCase()
		c.setInitError("authUseCase", err)
	})
	if err := c.initError("authUseCase"); err != nil {
		return nil, err
	}
	return c.authUseCase, nil
}

// AccountUseCase returns the account management use case.
func (c *Container) AccountUseCase() (authUseCase.AccountUseCase, error) {
	c.accountUseCaseInit.Do(func() {
		var err error
		c.accountUseCase, err = c.initAccountUseCase()
		c.setInitError("accountUseCase", err)
	})
	if err := c.initError("accountUseCase"); err != nil {
		return nil, err
	}
	return c.accountUseCase, nil
}

// AuthHandler returns the login and session HTTP handler.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	c.authHandlerInit.Do(func() {
		useCase, err := c.AuthUseCase()
		if err != nil {
			c.setInitError("authHandler", fmt.Errorf("failed to get auth use case for auth handler: %w", err))
			return
		}
		c.authHandler = authHTTP.NewAuthHandler(useCase, c.Logger())
	})
	if err := c.initError("authHandler"); err != nil {
		return nil, err
	}
	return c.authHandler, nil
}

// AccountHandler returns the account management HTTP handler.
func (c *Container) AccountHandler() (*authHTTP.AccountHandler, error) {
	c.accountHandlerInit.Do(func() {
		useCase, err := c.AccountUseCase()
		if err != nil {
			c.setInitError("accountHandler", fmt.Errorf("failed to get account use case for account handler: %w", err))
			return
		}
		c.accountHandler = authHTTP.NewAccountHandler(useCase, c.Logger())
	})
	if err := c.initError("accountHandler"); err != nil {
		return nil, err
	}
	return c.accountHandler, nil
}

func (c *Container) initTokenCodec() (authService.TokenCodec, error) {
	secrets, err := c.startupSecrets()
	if err != nil {
		return nil, err
	}

	mac, err := authService.NewMACStrategy(c.config.AuthTokenAlgorithm, []byte(secrets.signingSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to create token mac: %w", err)
	}
	return authService.NewTokenCodec(mac), nil
}

func (c *Container) initAccountRepository() (authUseCase.AccountRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for account repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return authRepository.NewPostgreSQLAccountRepository(db), nil
	case "mysql":
		return authRepository.NewMySQLAccountRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	accountRepository, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for auth use case: %w", err)
	}

	passwordHasher, err := c.PasswordHasher()
	if err != nil {
		return nil, err
	}

	tokenCodec, err := c.TokenCodec()
	if err != nil {
		return nil, err
	}

	baseUseCase := authUseCase.NewAuthUseCase(
		accountRepository,
		passwordHasher,
		tokenCodec,
		c.config.AuthTokenExpiration,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
		}
		return authUseCase.NewAuthUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initAccountUseCase() (authUseCase.AccountUseCase, error) {
	accountRepository, err := c.AccountRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get account repository for account use case: %w", err)
	}

	passwordHasher, err := c.PasswordHasher()
	if err != nil {
		return nil, err
	}

	baseUseCase := authUseCase.NewAccountUseCase(accountRepository, passwordHasher)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for account use case: %w", err)
		}
		return authUseCase.NewAccountUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

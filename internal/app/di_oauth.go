package app

import (
	"fmt"

	oauthRepository "github.com/authflow/authflow/internal/oauth/repository"
	oauthService "github.com/authflow/authflow/internal/oauth/service"
	oauthUseCase "github.com/authflow/authflow/internal/oauth/usecase"
	"github.com/authflow/authflow/internal/session"
	"github.com/authflow/authflow/internal/user"
)

// SecretService returns the client secret hashing service.
func (c *Container) SecretService() oauthService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = oauthService.NewSecretService()
	})
	return c.secretService
}

// CredentialService returns the opaque credential generation service.
func (c *Container) CredentialService() oauthService.CredentialService {
	c.credentialServiceInit.Do(func() {
		c.credentialService = oauthService.NewCredentialService()
	})
	return c.credentialService
}

// PKCEService returns the PKCE challenge verification service.
func (c *Container) PKCEService() oauthService.PKCEService {
	c.pkceServiceInit.Do(func() {
		c.pkceService = oauthService.NewPKCEService()
	})
	return c.pkceService
}

// ClientRepository returns the client repository based on the database driver.
func (c *Container) ClientRepository() (oauthUseCase.ClientRepository, error) {
	c.clientRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["clientRepository"] = fmt.Errorf("failed to get database for client repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.clientRepository = oauthRepository.NewMySQLClientRepository(db)
		case "postgres":
			c.clientRepository = oauthRepository.NewPostgreSQLClientRepository(db)
		default:
			c.initErrors["clientRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["clientRepository"]; exists {
		return nil, storedErr
	}
	return c.clientRepository, nil
}

// AuthorizationRequestRepository returns the authorization request repository
// based on the database driver.
func (c *Container) AuthorizationRequestRepository() (oauthUseCase.AuthorizationRequestRepository, error) {
	c.requestRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["requestRepository"] = fmt.Errorf("failed to get database for authorization request repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.requestRepository = oauthRepository.NewMySQLAuthorizationRequestRepository(db)
		case "postgres":
			c.requestRepository = oauthRepository.NewPostgreSQLAuthorizationRequestRepository(db)
		default:
			c.initErrors["requestRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["requestRepository"]; exists {
		return nil, storedErr
	}
	return c.requestRepository, nil
}

// AuthorizationCodeRepository returns the authorization code repository based
// on the database driver.
func (c *Container) AuthorizationCodeRepository() (oauthUseCase.AuthorizationCodeRepository, error) {
	c.codeRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["codeRepository"] = fmt.Errorf("failed to get database for authorization code repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.codeRepository = oauthRepository.NewMySQLAuthorizationCodeRepository(db)
		case "postgres":
			c.codeRepository = oauthRepository.NewPostgreSQLAuthorizationCodeRepository(db)
		default:
			c.initErrors["codeRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["codeRepository"]; exists {
		return nil, storedErr
	}
	return c.codeRepository, nil
}

// AccessTokenRepository returns the access token repository based on the
// database driver.
func (c *Container) AccessTokenRepository() (oauthUseCase.AccessTokenRepository, error) {
	c.accessTokenRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["accessTokenRepository"] = fmt.Errorf("failed to get database for access token repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.accessTokenRepository = oauthRepository.NewMySQLAccessTokenRepository(db)
		case "postgres":
			c.accessTokenRepository = oauthRepository.NewPostgreSQLAccessTokenRepository(db)
		default:
			c.initErrors["accessTokenRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["accessTokenRepository"]; exists {
		return nil, storedErr
	}
	return c.accessTokenRepository, nil
}

// RefreshTokenRepository returns the refresh token repository based on the
// database driver.
func (c *Container) RefreshTokenRepository() (oauthUseCase.RefreshTokenRepository, error) {
	c.refreshTokenRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["refreshTokenRepository"] = fmt.Errorf("failed to get database for refresh token repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.refreshTokenRepository = oauthRepository.NewMySQLRefreshTokenRepository(db)
		case "postgres":
			c.refreshTokenRepository = oauthRepository.NewPostgreSQLRefreshTokenRepository(db)
		default:
			c.initErrors["refreshTokenRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["refreshTokenRepository"]; exists {
		return nil, storedErr
	}
	return c.refreshTokenRepository, nil
}

// SessionRepository returns the session repository based on the database driver.
func (c *Container) SessionRepository() (session.Repository, error) {
	c.sessionRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["sessionRepository"] = fmt.Errorf("failed to get database for session repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.sessionRepository = session.NewMySQLRepository(db)
		case "postgres":
			c.sessionRepository = session.NewPostgreSQLRepository(db)
		default:
			c.initErrors["sessionRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["sessionRepository"]; exists {
		return nil, storedErr
	}
	return c.sessionRepository, nil
}

// UserRepository returns the user repository based on the database driver.
func (c *Container) UserRepository() (user.Repository, error) {
	c.userRepositoryInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userRepository"] = fmt.Errorf("failed to get database for user repository: %w", err)
			return
		}
		switch c.config.DBDriver {
		case "mysql":
			c.userRepository = user.NewMySQLRepository(db)
		case "postgres":
			c.userRepository = user.NewPostgreSQLRepository(db)
		default:
			c.initErrors["userRepository"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["userRepository"]; exists {
		return nil, storedErr
	}
	return c.userRepository, nil
}

// AuthorizeUseCase returns the authorization request use case.
func (c *Container) AuthorizeUseCase() (oauthUseCase.AuthorizeUseCase, error) {
	c.authorizeUseCaseInit.Do(func() {
		useCase, err := c.initAuthorizeUseCase()
		if err != nil {
			c.initErrors["authorizeUseCase"] = err
			return
		}
		c.authorizeUseCase = useCase
	})
	if storedErr, exists := c.initErrors["authorizeUseCase"]; exists {
		return nil, storedErr
	}
	return c.authorizeUseCase, nil
}

// ConsentUseCase returns the consent decision use case.
func (c *Container) ConsentUseCase() (oauthUseCase.ConsentUseCase, error) {
	c.consentUseCaseInit.Do(func() {
		useCase, err := c.initConsentUseCase()
		if err != nil {
			c.initErrors["consentUseCase"] = err
			return
		}
		c.consentUseCase = useCase
	})
	if storedErr, exists := c.initErrors["consentUseCase"]; exists {
		return nil, storedErr
	}
	return c.consentUseCase, nil
}

// TokenUseCase returns the token issuance use case.
func (c *Container) TokenUseCase() (oauthUseCase.TokenUseCase, error) {
	c.tokenUseCaseInit.Do(func() {
		useCase, err := c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		c.tokenUseCase = useCase
	})
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// ValidateUseCase returns the access token validation use case.
func (c *Container) ValidateUseCase() (oauthUseCase.ValidateUseCase, error) {
	c.validateUseCaseInit.Do(func() {
		useCase, err := c.initValidateUseCase()
		if err != nil {
			c.initErrors["validateUseCase"] = err
			return
		}
		c.validateUseCase = useCase
	})
	if storedErr, exists := c.initErrors["validateUseCase"]; exists {
		return nil, storedErr
	}
	return c.validateUseCase, nil
}

// ClientUseCase returns the client registry use case.
func (c *Container) ClientUseCase() (oauthUseCase.ClientUseCase, error) {
	c.clientUseCaseInit.Do(func() {
		clientRepo, err := c.ClientRepository()
		if err != nil {
			c.initErrors["clientUseCase"] = fmt.Errorf("failed to get client repository for client use case: %w", err)
			return
		}
		c.clientUseCase = oauthUseCase.NewClientUseCase(clientRepo, c.SecretService())
	})
	if storedErr, exists := c.initErrors["clientUseCase"]; exists {
		return nil, storedErr
	}
	return c.clientUseCase, nil
}

// CleanupUseCase returns the expired credential sweep use case.
func (c *Container) CleanupUseCase() (oauthUseCase.CleanupUseCase, error) {
	c.cleanupUseCaseInit.Do(func() {
		useCase, err := c.initCleanupUseCase()
		if err != nil {
			c.initErrors["cleanupUseCase"] = err
			return
		}
		c.cleanupUseCase = useCase
	})
	if storedErr, exists := c.initErrors["cleanupUseCase"]; exists {
		return nil, storedErr
	}
	return c.cleanupUseCase, nil
}

// initAuthorizeUseCase creates the authorize use case with all its dependencies.
func (c *Container) initAuthorizeUseCase() (oauthUseCase.AuthorizeUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for authorize use case: %w", err)
	}

	requestRepo, err := c.AuthorizationRequestRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization request repository for authorize use case: %w", err)
	}

	useCase := oauthUseCase.NewAuthorizeUseCase(c.config, clientRepo, requestRepo, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for authorize use case: %w", err)
		}
		useCase = oauthUseCase.NewAuthorizeUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initConsentUseCase creates the consent use case with all its dependencies.
func (c *Container) initConsentUseCase() (oauthUseCase.ConsentUseCase, error) {
	requestRepo, err := c.AuthorizationRequestRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization request repository for consent use case: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for consent use case: %w", err)
	}

	useCase := oauthUseCase.NewConsentUseCase(requestRepo, tokenUseCase, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for consent use case: %w", err)
		}
		useCase = oauthUseCase.NewConsentUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (oauthUseCase.TokenUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for token use case: %w", err)
	}

	codeRepo, err := c.AuthorizationCodeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code repository for token use case: %w", err)
	}

	accessTokenRepo, err := c.AccessTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access token repository for token use case: %w", err)
	}

	refreshTokenRepo, err := c.RefreshTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token repository for token use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for token use case: %w", err)
	}

	useCase := oauthUseCase.NewTokenUseCase(
		c.config,
		clientRepo,
		codeRepo,
		accessTokenRepo,
		refreshTokenRepo,
		c.SecretService(),
		c.CredentialService(),
		c.PKCEService(),
		txManager,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		useCase = oauthUseCase.NewTokenUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initValidateUseCase creates the validate use case with all its dependencies.
func (c *Container) initValidateUseCase() (oauthUseCase.ValidateUseCase, error) {
	accessTokenRepo, err := c.AccessTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access token repository for validate use case: %w", err)
	}

	useCase := oauthUseCase.NewValidateUseCase(accessTokenRepo, c.CredentialService())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for validate use case: %w", err)
		}
		useCase = oauthUseCase.NewValidateUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initCleanupUseCase creates the cleanup use case with all its dependencies.
func (c *Container) initCleanupUseCase() (oauthUseCase.CleanupUseCase, error) {
	requestRepo, err := c.AuthorizationRequestRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization request repository for cleanup use case: %w", err)
	}

	codeRepo, err := c.AuthorizationCodeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code repository for cleanup use case: %w", err)
	}

	accessTokenRepo, err := c.AccessTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get access token repository for cleanup use case: %w", err)
	}

	refreshTokenRepo, err := c.RefreshTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token repository for cleanup use case: %w", err)
	}

	useCase := oauthUseCase.NewCleanupUseCase(requestRepo, codeRepo, accessTokenRepo, refreshTokenRepo, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for cleanup use case: %w", err)
		}
		useCase = oauthUseCase.NewCleanupUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

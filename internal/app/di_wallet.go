package app

import (
	"context"
	"fmt"

	walletDomain "github.com/allisson/pqvault/internal/wallet/domain"
	walletRepository "github.com/allisson/pqvault/internal/wallet/repository"
	walletService "github.com/allisson/pqvault/internal/wallet/service"
	walletUseCase "github.com/allisson/pqvault/internal/wallet/usecase"
)

// WalletRepository returns the wallet repository based on database driver.
func (c *Container) WalletRepository() (walletUseCase.WalletRepository, error) {
	c.walletRepoInit.Do(func() {
		repo, err := c.initWalletRepository()
		if err != nil {
			c.initErrors["walletRepo"] = err
			return
		}
		c.walletRepo = repo
	})
	if storedErr, exists := c.initErrors["walletRepo"]; exists {
		return nil, storedErr
	}
	return c.walletRepo, nil
}

// KeyDeriver returns the password key derivation service.
func (c *Container) KeyDeriver() walletService.KeyDeriver {
	c.keyDeriverInit.Do(func() {
		c.keyDeriver = walletService.NewPBKDF2Deriver(c.config.KDFIterations)
	})
	return c.keyDeriver
}

// EnvelopeCipher returns the envelope encryption service for the configured
// AEAD algorithm.
func (c *Container) EnvelopeCipher() (walletService.EnvelopeCipher, error) {
	c.envelopeInit.Do(func() {
		alg, err := c.envelopeAlgorithm()
		if err != nil {
			c.initErrors["envelope"] = err
			return
		}
		c.envelope = walletService.NewEnvelopeService(alg)
	})
	if storedErr, exists := c.initErrors["envelope"]; exists {
		return nil, storedErr
	}
	return c.envelope, nil
}

// KeyPairFactory returns the post-quantum key pair factory.
func (c *Container) KeyPairFactory() (walletService.KeyPairFactory, error) {
	c.keyPairsInit.Do(func() {
		envelope, err := c.EnvelopeCipher()
		if err != nil {
			c.initErrors["keyPairFactory"] = fmt.Errorf("failed to get envelope cipher for key pair factory: %w", err)
			return
		}
		c.keyPairs = walletService.NewLatticeKeyPairFactory(envelope)
	})
	if storedErr, exists := c.initErrors["keyPairFactory"]; exists {
		return nil, storedErr
	}
	return c.keyPairs, nil
}

// RecoveryCodec returns the recovery phrase codec.
func (c *Container) RecoveryCodec() walletService.RecoveryCodec {
	c.recoveryCodecInit.Do(func() {
		c.recoveryCodec = walletService.NewWordlistRecoveryCodec()
	})
	return c.recoveryCodec
}

// AtRestWrapper returns the at-rest wrapping service. When a KMS key URI is
// configured, wallet ciphertexts get an extra KMS encryption layer before
// storage; otherwise a pass-through wrapper is used.
func (c *Container) AtRestWrapper() (walletService.AtRestWrapper, error) {
	c.atRestWrapperInit.Do(func() {
		if c.config.KMSKeyURI == "" {
			c.atRestWrapper = walletService.NewNoopWrapper()
			return
		}

		keeper, err := walletService.OpenKMSKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["atRestWrapper"] = fmt.Errorf("failed to open kms keeper: %w", err)
			return
		}
		c.kmsKeeper = keeper
		c.atRestWrapper = walletService.NewKMSWrapper(keeper)
	})
	if storedErr, exists := c.initErrors["atRestWrapper"]; exists {
		return nil, storedErr
	}
	return c.atRestWrapper, nil
}

// WalletUseCase returns the wallet use case, wrapped with metrics when
// metrics are enabled.
func (c *Container) WalletUseCase() (walletUseCase.WalletUseCase, error) {
	c.walletUCInit.Do(func() {
		useCase, err := c.initWalletUseCase()
		if err != nil {
			c.initErrors["walletUseCase"] = err
			return
		}
		c.walletUC = useCase
	})
	if storedErr, exists := c.initErrors["walletUseCase"]; exists {
		return nil, storedErr
	}
	return c.walletUC, nil
}

// initWalletRepository creates the wallet repository instance.
func (c *Container) initWalletRepository() (walletUseCase.WalletRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for wallet repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return walletRepository.NewMySQLWalletRepository(db), nil
	case "postgres":
		return walletRepository.NewPostgreSQLWalletRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initWalletUseCase creates the wallet use case with all its dependencies.
func (c *Container) initWalletUseCase() (walletUseCase.WalletUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for wallet use case: %w", err)
	}

	walletRepo, err := c.WalletRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet repository for wallet use case: %w", err)
	}

	envelope, err := c.EnvelopeCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope cipher for wallet use case: %w", err)
	}

	keyPairFactory, err := c.KeyPairFactory()
	if err != nil {
		return nil, fmt.Errorf("failed to get key pair factory for wallet use case: %w", err)
	}

	atRestWrapper, err := c.AtRestWrapper()
	if err != nil {
		return nil, fmt.Errorf("failed to get at-rest wrapper for wallet use case: %w", err)
	}

	useCase := walletUseCase.NewWalletUseCase(
		txManager,
		walletRepo,
		c.KeyDeriver(),
		envelope,
		keyPairFactory,
		c.RecoveryCodec(),
		atRestWrapper,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for wallet use case: %w", err)
		}
		useCase = walletUseCase.NewWalletUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// envelopeAlgorithm maps the configured algorithm name to the domain type.
func (c *Container) envelopeAlgorithm() (walletDomain.Algorithm, error) {
	switch c.config.EnvelopeAlgorithm {
	case string(walletDomain.AESGCM):
		return walletDomain.AESGCM, nil
	case string(walletDomain.ChaCha20):
		return walletDomain.ChaCha20, nil
	default:
		return "", fmt.Errorf("unsupported envelope algorithm: %s", c.config.EnvelopeAlgorithm)
	}
}

package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
	cryptoService "github.com/brujulapp/brujula/internal/crypto/service"
	cryptoUseCase "github.com/brujulapp/brujula/internal/crypto/usecase"
	"github.com/brujulapp/brujula/internal/ratelimit"
)

// EnvelopeCipher returns the envelope cipher used for matricula encryption.
func (c *Container) EnvelopeCipher() cryptoService.EnvelopeCipher {
	c.envelopeCipherInit.Do(func() {
		c.envelopeCipher = cryptoService.NewEnvelopeCipher()
	})
	return c.envelopeCipher
}

// KMSService returns the KMS service for unwrapping the key ring at startup.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// RevealLimiter returns the fixed-window limiter shared by matricula reveals.
func (c *Container) RevealLimiter() *ratelimit.Limiter {
	c.revealLimiterInit.Do(func() {
		c.revealLimiter = ratelimit.NewLimiter()
	})
	return c.revealLimiter
}

// KeyRing returns the matricula encryption key ring.
// When a KMS URI is configured the keyring value is treated as a wrapped
// blob and unwrapped once before parsing.
func (c *Container) KeyRing() (*cryptoDomain.KeyRing, error) {
	var err error
	c.keyRingInit.Do(func() {
		c.keyRing, err = c.initKeyRing()
		if err != nil {
			c.initErrors["keyRing"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyRing"]; exists {
		return nil, storedErr
	}
	return c.keyRing, nil
}

// SweepUseCase returns the matricula re-encryption sweep use case.
func (c *Container) SweepUseCase() (cryptoUseCase.SweepUseCase, error) {
	var err error
	c.sweepUseCaseInit.Do(func() {
		c.sweepUseCase, err = c.initSweepUseCase()
		if err != nil {
			c.initErrors["sweepUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sweepUseCase"]; exists {
		return nil, storedErr
	}
	return c.sweepUseCase, nil
}

// initKeyRing parses (and, when configured, unwraps) the key ring.
func (c *Container) initKeyRing() (*cryptoDomain.KeyRing, error) {
	keyringJSON := c.config.MatriculaKeyring
	if keyringJSON == "" {
		return nil, fmt.Errorf("matricula keyring is not configured")
	}

	if kmsURI := c.config.MatriculaKeyringKMSURI; kmsURI != "" {
		ctx := context.Background()

		keeper, err := c.KMSService().OpenKeeper(ctx, kmsURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open KMS keeper for keyring: %w", err)
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				c.Logger().Warn("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()

		keyringJSON, err = cryptoService.UnwrapKeyring(ctx, keeper, keyringJSON)
		if err != nil {
			return nil, err
		}
	}

	keyRing, err := cryptoDomain.ParseKeyRing(keyringJSON, c.config.MatriculaCurrentKid)
	if err != nil {
		return nil, fmt.Errorf("failed to parse matricula keyring: %w", err)
	}

	return keyRing, nil
}

// initSweepUseCase creates the sweep use case over the student repository.
func (c *Container) initSweepUseCase() (cryptoUseCase.SweepUseCase, error) {
	studentRepo, err := c.StudentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get student repository for sweep use case: %w", err)
	}

	recordRepo, ok := studentRepo.(cryptoUseCase.EncryptedRecordRepository)
	if !ok {
		return nil, fmt.Errorf("student repository does not support encrypted record access")
	}

	keyRing, err := c.KeyRing()
	if err != nil {
		return nil, fmt.Errorf("failed to get key ring for sweep use case: %w", err)
	}

	return cryptoUseCase.NewSweepUseCase(recordRepo, c.EnvelopeCipher(), keyRing), nil
}

package app

import (
	"fmt"
	"log/slog"

	cryptoService "github.com/allisson/siteapi/internal/crypto/service"
)

// startupSecrets holds the plaintext secrets after optional KMS unwrapping.
type startupSecrets struct {
	signingSecret string
	piiPassphrase string
}

// KMSService returns the KMS service used to unwrap startup secrets.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// PiiCipher returns the field cipher for personal data. Keys are derived once.
func (c *Container) PiiCipher() (*cryptoService.PiiCipher, error) {
	c.piiCipherInit.Do(func() {
		var err error
		c.piiCipher, err = c.initPiiCipher()
		c.setInitError("piiCipher", err)
	})
	if err := c.initError("piiCipher"); err != nil {
		return nil, err
	}
	return c.piiCipher, nil
}

func (c *Container) startupSecrets() (*startupSecrets, error) {
	c.secretsInit.Do(func() {
		var err error
		c.secrets, err = c.initStartupSecrets()
		c.setInitError("secrets", err)
	})
	if err := c.initError("secrets"); err != nil {
		return nil, err
	}
	return c.secrets, nil
}

// initStartupSecrets returns the configured secrets, decrypting them with the
// KMS key when KMS_KEY_URI is set.
func (c *Container) initStartupSecrets() (*startupSecrets, error) {
	if c.config.KMSKeyURI == "" {
		return &startupSecrets{
			signingSecret: c.config.AuthSigningSecret,
			piiPassphrase: c.config.PIIEncryptionPassphrase,
		}, nil
	}

	c.Logger().Info("decrypting startup secrets with KMS",
		slog.String("kms_provider", c.config.KMSProvider),
	)

	plaintexts, err := c.KMSService().DecryptSecrets(
		c.ctx,
		c.config.KMSKeyURI,
		c.config.AuthSigningSecret,
		c.config.PIIEncryptionPassphrase,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt startup secrets: %w", err)
	}

	return &startupSecrets{
		signingSecret: plaintexts[0],
		piiPassphrase: plaintexts[1],
	}, nil
}

func (c *Container) initPiiCipher() (*cryptoService.PiiCipher, error) {
	secrets, err := c.startupSecrets()
	if err != nil {
		return nil, err
	}

	cipher, err := cryptoService.NewPiiCipher(secrets.piiPassphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to create pii cipher: %w", err)
	}
	return cipher, nil
}

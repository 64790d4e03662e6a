package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/siteapi/internal/crypto/domain"

	// KMS provider drivers selectable through the key URI scheme.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService unwraps startup secrets held encrypted by a KMS.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI.
	// Supports gcpkms://, awskms://, azurekeyvault://, hashivault:// and base64key://.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)

	// DecryptSecrets decrypts each base64 ciphertext with the keeper at keyURI
	// and returns the plaintexts in the same order.
	DecryptSecrets(ctx context.Context, keyURI string, ciphertexts ...string) ([]string, error)
}

type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

func (k *kmsService) DecryptSecrets(ctx context.Context, keyURI string, ciphertexts ...string) ([]string, error) {
	keeper, err := k.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	plaintexts := make([]string, 0, len(ciphertexts))
	for i, encoded := range ciphertexts {
		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("secret %d is not valid base64: %w", i, err)
		}

		plaintext, err := keeper.Decrypt(ctx, ciphertext)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt secret %d: %w", i, err)
		}
		plaintexts = append(plaintexts, string(plaintext))
		clear(plaintext)
	}

	return plaintexts, nil
}

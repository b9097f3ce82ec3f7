package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens gocloud.dev secrets keepers for unwrapping the key ring.
//
// In production the MATRICULA_KEYRING environment value can hold a
// KMS-encrypted blob instead of plaintext JSON; the keeper configured by
// MATRICULA_KEYRING_KMS_URI decrypts it once at startup.
type KMSService interface {
	// OpenKeeper opens a secrets keeper for the configured KMS provider.
	// Returns an error if the key URI is invalid or the connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets keeper using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// UnwrapKeyring decrypts a base64 KMS-encrypted keyring blob into the
// plaintext JSON expected by domain.ParseKeyRing.
func UnwrapKeyring(ctx context.Context, keeper cryptoDomain.KMSKeeper, blobB64 string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(blobB64)
	if err != nil {
		return "", fmt.Errorf("%w: keyring blob is not valid base64", cryptoDomain.ErrInvalidKeyringFormat)
	}

	plaintext, err := keeper.Decrypt(ctx, blob)
	if err != nil {
		return "", fmt.Errorf("failed to unwrap keyring: %w", err)
	}

	return string(plaintext), nil
}

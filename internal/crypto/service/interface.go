// Package service implements the cryptographic services for matricula
// protection: the AES-256-GCM envelope cipher and the optional KMS unwrap of
// the configured key ring.
package service

import (
	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
)

// EnvelopeCipher performs authenticated encryption of a short string into a
// versioned, self-describing payload and back.
type EnvelopeCipher interface {
	// Encrypt encrypts plaintext under the given key with a fresh random
	// nonce and returns the resulting envelope tagged with the key's kid.
	Encrypt(plaintext string, key cryptoDomain.KeyRecord) (cryptoDomain.EncryptedPayload, error)

	// Decrypt recovers the plaintext from an envelope using the base64-encoded
	// key. Fails with ErrDecryptionFailed when the authentication tag does not
	// verify and with ErrMalformedPayload when the envelope is structurally
	// invalid.
	Decrypt(payload cryptoDomain.EncryptedPayload, keyB64 string) (string, error)
}

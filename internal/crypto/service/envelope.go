package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/brujulapp/brujula/internal/crypto/domain"
)

// envelopeCipher implements EnvelopeCipher using AES-256-GCM.
//
// Security properties:
//   - 256-bit keys
//   - 12-byte nonce, randomly generated per encryption via crypto/rand
//   - 16-byte authentication tag, stored as a separate envelope field
//
// Nonce uniqueness is the sole correctness requirement of GCM; drawing each
// nonce from a CSPRNG avoids counter management at a collision risk that is
// negligible at this volume. The cipher is stateless and safe for concurrent
// use from multiple goroutines.
type envelopeCipher struct{}

// NewEnvelopeCipher creates a new AES-256-GCM envelope cipher.
func NewEnvelopeCipher() EnvelopeCipher {
	return &envelopeCipher{}
}

// Encrypt encrypts plaintext under key and returns a version-1 A256GCM
// envelope. The ciphertext and the authentication tag are stored in separate
// base64 fields; the payload carries the key's kid so decryption can resolve
// the right ring entry after a rotation.
func (e *envelopeCipher) Encrypt(
	plaintext string,
	key cryptoDomain.KeyRecord,
) (cryptoDomain.EncryptedPayload, error) {
	aead, err := newGCM(key.Key)
	if err != nil {
		return cryptoDomain.EncryptedPayload{}, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return cryptoDomain.EncryptedPayload{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends the 16-byte tag to the ciphertext; the envelope format
	// keeps them in separate fields.
	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	tagStart := len(sealed) - aead.Overhead()
	ciphertext, tag := sealed[:tagStart], sealed[tagStart:]

	return cryptoDomain.EncryptedPayload{
		Version:       cryptoDomain.PayloadVersion,
		Algorithm:     cryptoDomain.PayloadAlgorithm,
		Kid:           key.Kid,
		IvB64:         base64.StdEncoding.EncodeToString(nonce),
		CiphertextB64: base64.StdEncoding.EncodeToString(ciphertext),
		TagB64:        base64.StdEncoding.EncodeToString(tag),
	}, nil
}

// Decrypt verifies and decrypts an envelope with the base64-encoded key.
// Tag verification failure is a hard error, never silent corruption: no
// plaintext is returned unless the whole ciphertext authenticates.
func (e *envelopeCipher) Decrypt(
	payload cryptoDomain.EncryptedPayload,
	keyB64 string,
) (string, error) {
	if err := payload.Validate(); err != nil {
		return "", err
	}

	key, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		return "", fmt.Errorf("%w: key is not valid base64", cryptoDomain.ErrInvalidKeySize)
	}
	defer cryptoDomain.Zero(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	// Validate() already checked these are well-formed base64.
	nonce, _ := base64.StdEncoding.DecodeString(payload.IvB64)
	ciphertext, _ := base64.StdEncoding.DecodeString(payload.CiphertextB64)
	tag, _ := base64.StdEncoding.DecodeString(payload.TagB64)

	plaintext, err := aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// newGCM builds an AES-256-GCM AEAD from raw key material.
func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: key must be exactly 32 bytes", cryptoDomain.ErrInvalidKeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return aead, nil
}

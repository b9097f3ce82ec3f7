package domain

import (
	"github.com/brujulapp/brujula/internal/errors"
)

// Cryptographic operation error definitions.
//
// Configuration errors are fatal at load time: the key ring is validated
// eagerly exactly once per process, so a malformed ring never reaches an
// encrypt or decrypt call. Operational errors (decryption, malformed
// payloads) are per-operation and mapped to generic messages by the HTTP
// layer so no cryptographic detail leaks to end users.
var (
	// ErrKeyringNotSet indicates MATRICULA_KEYRING is not configured.
	ErrKeyringNotSet = errors.Wrap(errors.ErrConfiguration, "matricula keyring not set")

	// ErrCurrentKidNotSet indicates MATRICULA_CURRENT_KID is not configured.
	ErrCurrentKidNotSet = errors.Wrap(errors.ErrConfiguration, "matricula current kid not set")

	// ErrInvalidKeyringFormat indicates the keyring JSON could not be parsed.
	ErrInvalidKeyringFormat = errors.Wrap(errors.ErrConfiguration, "invalid keyring format")

	// ErrInvalidKeyBase64 indicates a keyring entry is not valid base64.
	ErrInvalidKeyBase64 = errors.Wrap(errors.ErrConfiguration, "invalid key base64")

	// ErrInvalidKeySize indicates a key does not decode to exactly 32 bytes.
	// All keys must be 256 bits for AES-256-GCM.
	ErrInvalidKeySize = errors.Wrap(errors.ErrConfiguration, "invalid key size")

	// ErrCurrentKeyNotFound indicates the configured current kid is absent
	// from the key ring.
	ErrCurrentKeyNotFound = errors.Wrap(errors.ErrConfiguration, "current key not found in keyring")

	// ErrUnknownKeyID indicates a payload references a kid that does not
	// resolve to any key in the ring. Returned by strict resolution only;
	// lenient lookup falls back to the current key instead.
	ErrUnknownKeyID = errors.Wrap(errors.ErrInvalidInput, "unknown key id")

	// ErrDecryptionFailed indicates GCM tag verification failed: tampered
	// ciphertext, wrong key, or corrupted data. The specific cause is not
	// disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrMalformedPayload indicates a ciphertext envelope is structurally
	// invalid: missing fields, wrong version or algorithm, or fields that
	// are not valid base64.
	ErrMalformedPayload = errors.Wrap(errors.ErrInvalidInput, "malformed encrypted payload")
)

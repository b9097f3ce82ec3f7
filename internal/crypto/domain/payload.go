package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Envelope format constants. Version and algorithm are pinned: every payload
// this system produces is AES-256-GCM under format version 1.
const (
	PayloadVersion   = "1"
	PayloadAlgorithm = "A256GCM"

	nonceSize = 12
	tagSize   = 16
)

// EncryptedPayload is a self-describing ciphertext envelope for a student
// matriculation number. Immutable once persisted; the re-encryption sweep
// supersedes a payload by writing a wholly new one under the current kid,
// never by mutating fields in place.
type EncryptedPayload struct {
	Version       string `json:"v"`
	Algorithm     string `json:"alg"`
	Kid           string `json:"kid,omitempty"`
	IvB64         string `json:"ivB64"`
	CiphertextB64 string `json:"ciphertextB64"`
	TagB64        string `json:"tagB64"`
}

// Encode serializes the payload to its canonical JSON form for persistence.
func (p EncryptedPayload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// DecodePayload parses raw bytes into a validated EncryptedPayload.
//
// This is the strict replacement for ad hoc nested-map extraction: any
// unrecognized shape is rejected deterministically with ErrMalformedPayload.
// A missing kid is legal (legacy unlabeled ciphertexts); everything else is
// required and must carry well-formed base64 of the expected length.
func DecodePayload(raw []byte) (EncryptedPayload, error) {
	var payload EncryptedPayload

	if len(raw) == 0 {
		return payload, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if err := payload.Validate(); err != nil {
		return EncryptedPayload{}, err
	}

	return payload, nil
}

// Validate checks structural invariants of the envelope.
func (p EncryptedPayload) Validate() error {
	if p.Version != PayloadVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrMalformedPayload, p.Version)
	}
	if p.Algorithm != PayloadAlgorithm {
		return fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedPayload, p.Algorithm)
	}

	iv, err := base64.StdEncoding.DecodeString(p.IvB64)
	if err != nil {
		return fmt.Errorf("%w: iv is not valid base64", ErrMalformedPayload)
	}
	if len(iv) != nonceSize {
		return fmt.Errorf("%w: iv must be %d bytes, got %d", ErrMalformedPayload, nonceSize, len(iv))
	}

	if p.CiphertextB64 == "" {
		return fmt.Errorf("%w: missing ciphertext", ErrMalformedPayload)
	}
	if _, err := base64.StdEncoding.DecodeString(p.CiphertextB64); err != nil {
		return fmt.Errorf("%w: ciphertext is not valid base64", ErrMalformedPayload)
	}

	tag, err := base64.StdEncoding.DecodeString(p.TagB64)
	if err != nil {
		return fmt.Errorf("%w: tag is not valid base64", ErrMalformedPayload)
	}
	if len(tag) != tagSize {
		return fmt.Errorf("%w: tag must be %d bytes, got %d", ErrMalformedPayload, tagSize, len(tag))
	}

	return nil
}

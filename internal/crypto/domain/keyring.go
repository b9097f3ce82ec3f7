// Package domain defines the cryptographic domain models protecting student
// matriculation numbers.
//
// A single-tier key ring holds 256-bit symmetric keys addressed by key id
// (kid). New ciphertexts are produced under the current kid; old ciphertexts
// stay decryptable under their original kid until the re-encryption sweep
// rewrites them, enabling key rotation without re-encrypting everything
// atomically.
package domain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// KeyRecord holds one symmetric key from the ring.
type KeyRecord struct {
	Kid string // Key identifier (e.g., "2025-01")
	Key []byte // Raw 32-byte key material, never persisted
}

// KeyB64 returns the key material encoded as standard base64.
func (k KeyRecord) KeyB64() string {
	return base64.StdEncoding.EncodeToString(k.Key)
}

// KeyRing resolves key ids to key material. The ring is parsed from
// configuration exactly once per process and is immutable afterwards; later
// configuration changes are not observed without a restart.
type KeyRing struct {
	currentKid string
	keys       map[string]KeyRecord
}

// KMSKeeper abstracts a gocloud.dev secrets keeper used to unwrap a
// KMS-encrypted key ring blob at startup.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// NewKeyRing builds a validated ring from a kid to base64-key mapping.
//
// Validation is eager: every key must decode to exactly 32 bytes and the
// current kid must be present, so failures surface at startup rather than
// on first use.
func NewKeyRing(currentKid string, keysB64 map[string]string) (*KeyRing, error) {
	if len(keysB64) == 0 {
		return nil, ErrKeyringNotSet
	}
	if currentKid == "" {
		return nil, ErrCurrentKidNotSet
	}

	ring := &KeyRing{
		currentKid: currentKid,
		keys:       make(map[string]KeyRecord, len(keysB64)),
	}

	for kid, keyB64 := range keysB64 {
		key, err := base64.StdEncoding.DecodeString(keyB64)
		if err != nil {
			return nil, fmt.Errorf("%w for kid %s: %v", ErrInvalidKeyBase64, kid, err)
		}
		if len(key) != 32 {
			Zero(key)
			return nil, fmt.Errorf("%w: key %s must be 32 bytes, got %d", ErrInvalidKeySize, kid, len(key))
		}
		ring.keys[kid] = KeyRecord{Kid: kid, Key: key}
	}

	if _, ok := ring.keys[currentKid]; !ok {
		ring.Close()
		return nil, fmt.Errorf("%w: kid=%s", ErrCurrentKeyNotFound, currentKid)
	}

	return ring, nil
}

// ParseKeyRing parses the keyring JSON ({"kid":"base64key",...}) and builds
// a validated ring.
func ParseKeyRing(keyringJSON, currentKid string) (*KeyRing, error) {
	if keyringJSON == "" {
		return nil, ErrKeyringNotSet
	}

	var keysB64 map[string]string
	if err := json.Unmarshal([]byte(keyringJSON), &keysB64); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyringFormat, err)
	}

	return NewKeyRing(currentKid, keysB64)
}

// CurrentKid returns the kid used for new encryptions.
func (r *KeyRing) CurrentKid() string {
	return r.currentKid
}

// Current returns the key record marked current.
func (r *KeyRing) Current() KeyRecord {
	return r.keys[r.currentKid]
}

// ByKid returns the key for kid, falling back to the current key when kid is
// empty or unknown. The fallback tolerates legacy unlabeled ciphertexts;
// callers that require exact key identity must use Resolve instead.
func (r *KeyRing) ByKid(kid string) KeyRecord {
	if key, ok := r.keys[kid]; ok {
		return key
	}
	return r.Current()
}

// Resolve returns the key for kid or ErrUnknownKeyID when it is absent from
// the ring. The re-encryption sweep uses strict resolution: re-encrypting a
// payload under a guessed key would corrupt it permanently.
func (r *KeyRing) Resolve(kid string) (KeyRecord, error) {
	key, ok := r.keys[kid]
	if !ok {
		return KeyRecord{}, fmt.Errorf("%w: kid=%s", ErrUnknownKeyID, kid)
	}
	return key, nil
}

// Kids returns every key id in the ring.
func (r *KeyRing) Kids() []string {
	kids := make([]string, 0, len(r.keys))
	for kid := range r.keys {
		kids = append(kids, kid)
	}
	return kids
}

// Close zeroes all key material and empties the ring.
func (r *KeyRing) Close() {
	for kid, key := range r.keys {
		Zero(key.Key)
		delete(r.keys, kid)
	}
	r.currentKid = ""
}

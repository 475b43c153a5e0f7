// Package cryptox implements the authenticated-encryption envelope used for
// everything the secure store persists.
//
// An envelope is base64(nonce || ciphertext) where the ciphertext is
// AES-256-GCM output (authentication tag included). The nonce is 12 fresh
// random bytes per call, so encrypting the same value twice yields different
// blobs; envelopes are therefore never usable as equality keys. Equality
// lookups go through the deterministic pseudonyms of package devicekey
// instead.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/savemoney-app/savemoney/internal/common"
)

const (
	// NonceSize is the GCM nonce length in bytes.
	NonceSize = 12
	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)

// Cipher seals JSON-serializable values under the device session key.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher for a 32-byte AES-256 key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: key must be 32 bytes, got %d", common.ErrEncryption, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrEncryption, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrEncryption, err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt serializes v to JSON and seals it under a fresh random nonce. The
// output differs on every call even for identical input.
func (c *Cipher) Encrypt(v any) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: marshal: %s", common.ErrEncryption, err)
	}

	nonce := common.GenerateRandByteArray(NonceSize)

	// Seal appends ciphertext to the nonce, producing nonce||ciphertext.
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt into v. It fails with common.ErrDecryption if the
// blob is malformed, truncated, tampered with, or was sealed under a
// different key (for example on another device).
func (c *Cipher) Decrypt(blob string, v any) error {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return fmt.Errorf("%w: invalid base64: %s", common.ErrDecryption, err)
	}
	if len(raw) < NonceSize+TagSize {
		return fmt.Errorf("%w: envelope too short", common.ErrDecryption)
	}

	plaintext, err := c.aead.Open(nil, raw[:NonceSize], raw[NonceSize:], nil)
	if err != nil {
		return fmt.Errorf("%w: authentication failed", common.ErrDecryption)
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("%w: unmarshal: %s", common.ErrDecryption, err)
	}
	return nil
}

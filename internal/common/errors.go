// Package common defines shared constants and sentinel errors used across
// the Save Money storage stack. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// ErrInitialization means the device identity or key material could not
	// be established. Fatal to the session; nothing encrypted can be read or
	// written until the process is restarted.
	ErrInitialization = errors.New("initialization failed")

	// Crypto-layer errors. A decryption failure after a successful lookup
	// means cross-device data or corruption; fatal to that read only.
	ErrEncryption = errors.New("encryption failed")
	ErrDecryption = errors.New("decryption failed")

	// ErrStorageAccess means the underlying store could not be opened, read,
	// or written. Surfaced to the caller; never retried automatically.
	ErrStorageAccess = errors.New("storage access failed")

	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Auth errors.
	ErrDuplicateEmail = errors.New("email already registered")
	ErrInvalidToken   = errors.New("invalid token")
)

package devicekey

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

// DeviceIdentity is the persisted per-device material that all key
// derivation is anchored to. Created lazily on first use, immutable
// afterwards, never rotated: losing it makes every ciphertext on this device
// permanently unreadable.
type DeviceIdentity struct {
	Fingerprint string `json:"fingerprint"`
	UUID        string `json:"uuid"`
}

// IdentityStore persists the DeviceIdentity. Load reports ok=false when no
// identity has been stored yet.
type IdentityStore interface {
	Load() (id DeviceIdentity, ok bool, err error)
	Save(id DeviceIdentity) error
}

const (
	keyringService     = "savemoney"
	keyringIdentityKey = "device-identity"
)

// KeyringStore keeps the identity in the OS keyring, so the raw material
// never sits next to the databases it protects.
type KeyringStore struct {
	// Service overrides the keyring service name. Empty means "savemoney".
	Service string
}

func (s KeyringStore) service() string {
	if s.Service != "" {
		return s.Service
	}
	return keyringService
}

func (s KeyringStore) Load() (DeviceIdentity, bool, error) {
	var id DeviceIdentity
	raw, err := keyring.Get(s.service(), keyringIdentityKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return id, false, nil
	}
	if err != nil {
		return id, false, fmt.Errorf("failed to read device identity from keyring: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return id, false, fmt.Errorf("failed to decode device identity: %w", err)
	}
	return id, true, nil
}

func (s KeyringStore) Save(id DeviceIdentity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to encode device identity: %w", err)
	}
	if err := keyring.Set(s.service(), keyringIdentityKey, string(raw)); err != nil {
		return fmt.Errorf("failed to save device identity to keyring: %w", err)
	}
	return nil
}

// FileStore keeps the identity in a plain JSON file. Fallback for headless
// machines without a keyring daemon.
type FileStore struct {
	Path string
}

func (s FileStore) Load() (DeviceIdentity, bool, error) {
	var id DeviceIdentity
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return id, false, nil
	}
	if err != nil {
		return id, false, fmt.Errorf("failed to read device identity file: %w", err)
	}
	if err := json.Unmarshal(data, &id); err != nil {
		return id, false, fmt.Errorf("failed to decode device identity: %w", err)
	}
	return id, true, nil
}

func (s FileStore) Save(id DeviceIdentity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to encode device identity: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create identity dir: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write device identity file: %w", err)
	}
	return nil
}

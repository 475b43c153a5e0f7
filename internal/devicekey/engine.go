package devicekey

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"

	"github.com/savemoney-app/savemoney/internal/common"
	"github.com/savemoney-app/savemoney/internal/logging"
)

// appMarker is mixed into every derivation so keys from this application
// never collide with another argon2id user on the same machine.
const appMarker = "savemoney.device.v1"

// argon2id parameters for the session key.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32
)

// Engine derives the device-bound key material the rest of the storage stack
// builds on: a 256-bit session key for envelope encryption and an
// HMAC-SHA-256 key for deterministic pseudonymization.
//
// Both are computed once per Initialize and held only in memory; the same
// DeviceIdentity always yields the same keys.
type Engine struct {
	store IdentityStore
	log   logging.Logger

	mu          sync.Mutex
	initialized bool
	identity    DeviceIdentity
	sessionKey  []byte
	pseudoKey   []byte
}

func NewEngine(store IdentityStore, log logging.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Initialize is idempotent. On first call it loads or creates the
// DeviceIdentity and derives the cached key material. Any identity-store
// failure is surfaced as common.ErrInitialization and is fatal to the
// session: the key material cannot be produced deterministically without the
// stored identity.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initLocked(ctx)
}

func (e *Engine) initLocked(ctx context.Context) error {
	if e.initialized {
		return nil
	}

	id, ok, err := e.store.Load()
	if err != nil {
		return fmt.Errorf("%w: %s", common.ErrInitialization, err)
	}
	if !ok {
		id = DeviceIdentity{
			Fingerprint: fingerprint(),
			UUID:        uuid.NewString(),
		}
		if err := e.store.Save(id); err != nil {
			return fmt.Errorf("%w: %s", common.ErrInitialization, err)
		}
		e.log.Info(ctx, "created device identity", "uuid", id.UUID)
	}

	material := strings.Join([]string{appMarker, id.Fingerprint, id.UUID}, "|")

	// Session key: memory-hard derivation, salted with the device UUID.
	e.sessionKey = argon2.IDKey([]byte(material), []byte(id.UUID), argonTime, argonMemory, argonThreads, keyLen)

	// Pseudonymization material: separate one-way branch so pseudonyms never
	// reveal anything about the session key.
	sum := sha256.Sum256([]byte(appMarker + "/pseudonym|" + material))
	e.pseudoKey = sum[:]

	e.identity = id
	e.initialized = true
	return nil
}

// fingerprint combines stable platform strings. It is persisted on first use
// so later hostname or platform changes do not orphan existing ciphertext.
func fingerprint() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return strings.Join([]string{runtime.GOOS, runtime.GOARCH, host}, "/")
}

// DeriveKey returns the deterministic hex pseudonym of input under this
// device's material. Same input always maps to the same output; distinct
// inputs collide with negligible probability. Used both for schema-name
// obfuscation (collection and key names) and for equality-searchable index
// values.
func (e *Engine) DeriveKey(ctx context.Context, input string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.initLocked(ctx); err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, e.pseudoKey)
	mac.Write([]byte(input))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// SessionKey returns a copy of the 256-bit symmetric key for this session.
func (e *Engine) SessionKey(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.initLocked(ctx); err != nil {
		return nil, err
	}
	key := make([]byte, len(e.sessionKey))
	copy(key, e.sessionKey)
	return key, nil
}

// Identity returns the device identity, initializing if needed.
func (e *Engine) Identity(ctx context.Context) (DeviceIdentity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.initLocked(ctx); err != nil {
		return DeviceIdentity{}, err
	}
	return e.identity, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/savemoney-app/savemoney/internal/auth"
	"github.com/savemoney-app/savemoney/internal/config"
	"github.com/savemoney-app/savemoney/internal/cryptox"
	"github.com/savemoney-app/savemoney/internal/devicekey"
	"github.com/savemoney-app/savemoney/internal/finance"
	"github.com/savemoney-app/savemoney/internal/logging"
	"github.com/savemoney-app/savemoney/internal/securestore"
)

// App owns the wired service graph: device key engine, cipher, the two
// facade stores, the auth service and the typed finance stores. Constructed
// once per process and injected into commands; there are no package-level
// singletons.
type App struct {
	cfg *config.Config
	log logging.Logger

	keys        *devicekey.Engine
	kv          *securestore.KVStore
	collections *securestore.CollectionStore

	Auth        *auth.Service
	Incomes     *finance.Store[finance.Income]
	Expenses    *finance.Store[finance.Expense]
	Investments *finance.Store[finance.Investment]
}

// NewApp wires everything under cfg.DataDir. A failure here is fatal to the
// session: without the device key material nothing encrypted can be touched.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	var ids devicekey.IdentityStore
	switch cfg.KeyBackend {
	case config.KeyBackendFile:
		ids = devicekey.FileStore{Path: filepath.Join(cfg.DataDir, "device.json")}
	default:
		ids = devicekey.KeyringStore{}
	}

	keys := devicekey.NewEngine(ids, log)
	if err := keys.Initialize(ctx); err != nil {
		return nil, err
	}
	key, err := keys.SessionKey(ctx)
	if err != nil {
		return nil, err
	}
	cipher, err := cryptox.NewCipher(key)
	if err != nil {
		return nil, err
	}

	kv, err := securestore.OpenKV(filepath.Join(cfg.DataDir, "kv.db"), keys, cipher, log)
	if err != nil {
		return nil, err
	}
	collections, err := securestore.OpenCollections(ctx, filepath.Join(cfg.DataDir, "collections.db"), keys, cipher, log)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	return &App{
		cfg:         cfg,
		log:         log,
		keys:        keys,
		kv:          kv,
		collections: collections,
		Auth:        auth.NewService(keys, kv, collections, log, cfg.SessionTTL),
		Incomes:     finance.NewIncomeStore(collections),
		Expenses:    finance.NewExpenseStore(collections),
		Investments: finance.NewInvestmentStore(collections),
	}, nil
}

func (a *App) Close() error {
	return errors.Join(a.kv.Close(), a.collections.Close())
}

// appFactory builds the App lazily so commands like help and completion do
// not touch the keyring or open databases.
type appFactory struct {
	cfg *config.Config
	log logging.Logger

	once sync.Once
	app  *App
	err  error
}

func (f *appFactory) get(ctx context.Context) (*App, error) {
	f.once.Do(func() {
		f.app, f.err = NewApp(ctx, f.cfg, f.log)
	})
	return f.app, f.err
}

func (f *appFactory) close() error {
	if f.app != nil {
		return f.app.Close()
	}
	return nil
}

package securestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/savemoney-app/savemoney/internal/common"
	"github.com/savemoney-app/savemoney/internal/cryptox"
	"github.com/savemoney-app/savemoney/internal/dbx"
	"github.com/savemoney-app/savemoney/internal/devicekey"
	"github.com/savemoney-app/savemoney/internal/logging"
	"github.com/savemoney-app/savemoney/internal/securestore/migrations"
)

// Record is a value on its way into a collection. ID stays plaintext and is
// the primary key; IndexSecret, when set, must be a deterministic pseudonym
// of the uniqueness field (it enables equality lookups without revealing the
// underlying value); Payload is the full record, sealed before write.
type Record struct {
	ID          string
	IndexSecret string
	Payload     any
}

// SealedRecord is a row read back from a collection, payload still sealed.
type SealedRecord struct {
	ID          string
	IndexSecret string

	blob   string
	cipher *cryptox.Cipher
}

// Open decrypts the record payload into out.
func (r *SealedRecord) Open(out any) error {
	return r.cipher.Decrypt(r.blob, out)
}

// CollectionStore is the encrypted indexed-collection side of the facade,
// backed by SQLite. Each logical collection becomes one physical table named
// by its pseudonym, created lazily on first use:
//
//	(id TEXT PRIMARY KEY, index_secret TEXT, <pseudonym-of-"data"> TEXT)
//
// with a non-unique index on index_secret. Every write runs in a single
// transaction scoped to one collection; there are no cross-collection
// transactions and no automatic retries.
type CollectionStore struct {
	db     *sql.DB
	keys   *devicekey.Engine
	cipher *cryptox.Cipher
	log    logging.Logger

	mu      sync.Mutex
	tables  map[string]string // logical name -> physical table, already created
	dataCol string            // pseudonym of "data", cached after first use
}

// OpenCollections opens or creates the collection database and applies the
// embedded migrations for the registry schema.
func OpenCollections(ctx context.Context, dsn string, keys *devicekey.Engine, cipher *cryptox.Cipher, lg logging.Logger) (*CollectionStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open collection database: %s", common.ErrStorageAccess, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping collection database: %s", common.ErrStorageAccess, err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate collection database: %s", common.ErrStorageAccess, err)
	}
	return &CollectionStore{
		db:     db,
		keys:   keys,
		cipher: cipher,
		log:    lg,
		tables: make(map[string]string),
	}, nil
}

// RunMigrations sets up goose with the embedded migrations and runs them.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("failed to set goose dialect:", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func (s *CollectionStore) Close() error {
	return s.db.Close()
}

// dataColumn returns the pseudonymized payload column name, shared by every
// collection table.
func (s *CollectionStore) dataColumn(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataCol != "" {
		return s.dataCol, nil
	}
	p, err := s.keys.DeriveKey(ctx, "data")
	if err != nil {
		return "", err
	}
	s.dataCol = "d_" + p
	return s.dataCol, nil
}

// ensure maps a logical collection name to its physical table, creating the
// table and its secondary index on first use (schema-on-first-use, like the
// version-bump dance of an object database, minus the version).
func (s *CollectionStore) ensure(ctx context.Context, collection string) (table, dataCol string, err error) {
	dataCol, err = s.dataColumn(ctx)
	if err != nil {
		return "", "", err
	}

	s.mu.Lock()
	table, ok := s.tables[collection]
	s.mu.Unlock()
	if ok {
		return table, dataCol, nil
	}

	p, err := s.keys.DeriveKey(ctx, collection)
	if err != nil {
		return "", "", err
	}
	table = "c_" + p

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
			id TEXT PRIMARY KEY,
			index_secret TEXT,
			%q TEXT NOT NULL
		)`, table, dataCol)
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return err
		}
		idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (index_secret)`, "ix_"+p, table)
		if _, err := tx.ExecContext(ctx, idx); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO collections (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, table)
		return err
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: create collection: %s", common.ErrStorageAccess, err)
	}

	s.mu.Lock()
	s.tables[collection] = table
	s.mu.Unlock()
	return table, dataCol, nil
}

// Save seals rec.Payload and upserts it by id in a single transaction.
func (s *CollectionStore) Save(ctx context.Context, collection string, rec Record) error {
	table, dataCol, err := s.ensure(ctx, collection)
	if err != nil {
		return err
	}
	blob, err := s.cipher.Encrypt(rec.Payload)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %q (id, index_secret, %q) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET index_secret = excluded.index_secret, %q = excluded.%q`,
		table, dataCol, dataCol, dataCol)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, query, rec.ID, rec.IndexSecret, blob)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: save record: %s", common.ErrStorageAccess, err)
	}
	return nil
}

// Get reads one record by primary key. A missing id returns (nil, nil).
func (s *CollectionStore) Get(ctx context.Context, collection, id string) (*SealedRecord, error) {
	table, dataCol, err := s.ensure(ctx, collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, index_secret, %q FROM %q WHERE id = ?`, dataCol, table)
	return s.queryOne(ctx, query, id)
}

// FindByIndex reads the first record whose index_secret equals secret, or
// (nil, nil) when none matches. Uniqueness over the index is an application
// invariant, not an engine constraint.
func (s *CollectionStore) FindByIndex(ctx context.Context, collection, secret string) (*SealedRecord, error) {
	table, dataCol, err := s.ensure(ctx, collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, index_secret, %q FROM %q WHERE index_secret = ? LIMIT 1`, dataCol, table)
	return s.queryOne(ctx, query, secret)
}

func (s *CollectionStore) queryOne(ctx context.Context, query string, arg any) (*SealedRecord, error) {
	rec := &SealedRecord{cipher: s.cipher}
	var secret sql.NullString
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&rec.ID, &secret, &rec.blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query record: %s", common.ErrStorageAccess, err)
	}
	rec.IndexSecret = secret.String
	return rec, nil
}

// GetAll lists every record in the collection, payloads still sealed; the
// caller opens the ones it needs.
func (s *CollectionStore) GetAll(ctx context.Context, collection string) ([]*SealedRecord, error) {
	table, dataCol, err := s.ensure(ctx, collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, index_secret, %q FROM %q`, dataCol, table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list records: %s", common.ErrStorageAccess, err)
	}
	defer rows.Close()

	var result []*SealedRecord
	for rows.Next() {
		rec := &SealedRecord{cipher: s.cipher}
		var secret sql.NullString
		if err := rows.Scan(&rec.ID, &secret, &rec.blob); err != nil {
			return nil, fmt.Errorf("%w: scan record: %s", common.ErrStorageAccess, err)
		}
		rec.IndexSecret = secret.String
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %s", common.ErrStorageAccess, err)
	}
	return result, nil
}

// Delete removes a record by primary key in a single transaction. Deleting
// an absent id is a no-op.
func (s *CollectionStore) Delete(ctx context.Context, collection, id string) error {
	table, _, err := s.ensure(ctx, collection)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %q WHERE id = ?`, table)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, query, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: delete record: %s", common.ErrStorageAccess, err)
	}
	return nil
}

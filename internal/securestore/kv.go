package securestore

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/savemoney-app/savemoney/internal/common"
	"github.com/savemoney-app/savemoney/internal/cryptox"
	"github.com/savemoney-app/savemoney/internal/devicekey"
	"github.com/savemoney-app/savemoney/internal/logging"
)

// KVStore is the encrypted flat key-value side of the facade, backed by
// bbolt. Store names map to buckets and keys to bucket entries, both
// pseudonymized before touching the database; values are sealed envelopes.
// The on-disk file therefore reveals no semantic names and no plaintext.
type KVStore struct {
	db     *bolt.DB
	keys   *devicekey.Engine
	cipher *cryptox.Cipher
	log    logging.Logger
}

// OpenKV opens or creates the key-value database at path. The open blocks at
// most one second waiting for the file lock held by another process.
func OpenKV(path string, keys *devicekey.Engine, cipher *cryptox.Cipher, log logging.Logger) (*KVStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open kv database: %s", common.ErrStorageAccess, err)
	}
	return &KVStore{db: db, keys: keys, cipher: cipher, log: log}, nil
}

func (s *KVStore) Close() error {
	return s.db.Close()
}

// names pseudonymizes the store and key pair.
func (s *KVStore) names(ctx context.Context, store, key string) (bucket, name []byte, err error) {
	b, err := s.keys.DeriveKey(ctx, store)
	if err != nil {
		return nil, nil, err
	}
	k, err := s.keys.DeriveKey(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	return []byte(b), []byte(k), nil
}

// SetItem seals value and writes it under the pseudonymized (store, key)
// pair, creating the bucket on first use.
func (s *KVStore) SetItem(ctx context.Context, store, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bucket, name, err := s.names(ctx, store, key)
	if err != nil {
		return err
	}
	blob, err := s.cipher.Encrypt(value)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		return b.Put(name, []byte(blob))
	})
	if err != nil {
		return fmt.Errorf("%w: set item: %s", common.ErrStorageAccess, err)
	}
	return nil
}

// GetItem reads and opens the value stored under (store, key) into out. A
// missing store or key is not an error: it returns (false, nil) and leaves
// out untouched.
func (s *KVStore) GetItem(ctx context.Context, store, key string, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	bucket, name, err := s.names(ctx, store, key)
	if err != nil {
		return false, err
	}

	var blob []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get(name); v != nil {
			// Copy out: the slice is only valid inside the transaction.
			blob = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: get item: %s", common.ErrStorageAccess, err)
	}
	if blob == nil {
		return false, nil
	}

	if err := s.cipher.Decrypt(string(blob), out); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveItem deletes the value stored under (store, key). Removing an absent
// key is a no-op.
func (s *KVStore) RemoveItem(ctx context.Context, store, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bucket, name, err := s.names(ctx, store, key)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Delete(name)
	})
	if err != nil {
		return fmt.Errorf("%w: remove item: %s", common.ErrStorageAccess, err)
	}
	return nil
}

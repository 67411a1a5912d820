package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/angelmondragon/nutritrack-backend/pkg/config"
)

// BadgerAdapter persists values in an embedded BadgerDB directory. This is the
// default local-first backend.
type BadgerAdapter struct {
	db *badger.DB
}

// NewBadgerAdapter opens (or creates) the BadgerDB at the configured path.
func NewBadgerAdapter(cfg config.StorageConfig) (*BadgerAdapter, error) {
	if cfg.BadgerPath == "" {
		return nil, errors.New("badger path is required")
	}
	opts := badger.DefaultOptions(cfg.BadgerPath).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger at %s: %w", cfg.BadgerPath, err)
	}
	return &BadgerAdapter{db: db}, nil
}

// NewBadgerAdapterInMemory opens a non-persistent BadgerDB, used by tests.
func NewBadgerAdapterInMemory() (*BadgerAdapter, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening in-memory badger: %w", err)
	}
	return &BadgerAdapter{db: db}, nil
}

func (b *BadgerAdapter) GetItem(_ context.Context, key string) (string, bool, error) {
	var value string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (b *BadgerAdapter) SetItem(_ context.Context, key, value string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (b *BadgerAdapter) RemoveItem(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *BadgerAdapter) Keys(_ context.Context) ([]string, error) {
	var keys []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (b *BadgerAdapter) HasKey(ctx context.Context, key string) (bool, error) {
	_, ok, err := b.GetItem(ctx, key)
	return ok, err
}

func (b *BadgerAdapter) Clear(_ context.Context) error {
	return b.db.DropAll()
}

func (b *BadgerAdapter) Close() error {
	return b.db.Close()
}

package repo

import (
	"context"
	"encoding/json"
	"sync"

	pkgerrors "github.com/angelmondragon/nutritrack-backend/pkg/errors"
	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
	"github.com/angelmondragon/nutritrack-backend/pkg/storage"
)

// schemaVersion tags every persisted collection document. Bare-array payloads
// written before versioning read as version 0 and upgrade on the next write.
const schemaVersion = 1

// Entity is anything a Collection can store.
type Entity interface {
	GetID() string
}

// document is the versioned envelope a collection persists under its key.
type document[T any] struct {
	Version int `json:"version"`
	Items   []T `json:"items"`
}

// Collection is the generic CRUD base shared by the domain repositories. Each
// collection is one JSON document under one storage key; every operation reads
// or rewrites the whole array. A per-collection mutex serializes the
// read-modify-write cycle so concurrent mutations cannot drop each other.
type Collection[T Entity] struct {
	mu        sync.Mutex
	store     *storage.Service
	key       string
	logg      *logger.Logger
	normalize func(*T)
}

// NewCollection builds a collection bound to a storage key. The optional
// normalize hook runs on every loaded item (enum and date coercion).
func NewCollection[T Entity](store *storage.Service, key string, logg *logger.Logger, normalize func(*T)) *Collection[T] {
	return &Collection[T]{store: store, key: key, logg: logg, normalize: normalize}
}

// Key returns the storage key backing this collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// GetAll returns every stored item. A payload that does not parse is logged
// and treated as an empty collection; only adapter failures surface as errors.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	var raw json.RawMessage
	ok, err := c.store.Get(ctx, c.key, &raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading collection "+c.key)
	}
	if !ok {
		return []T{}, nil
	}

	items, ok := c.decode(ctx, raw)
	if !ok {
		return []T{}, nil
	}
	for i := range items {
		if c.normalize != nil {
			c.normalize(&items[i])
		}
	}
	return items, nil
}

func (c *Collection[T]) decode(ctx context.Context, raw json.RawMessage) ([]T, bool) {
	var doc document[T]
	if err := json.Unmarshal(raw, &doc); err == nil && doc.Items != nil {
		return doc.Items, true
	}

	// Version 0: the payload is the bare items array.
	var legacy []T
	if err := json.Unmarshal(raw, &legacy); err == nil {
		return legacy, true
	} else if c.logg != nil {
		lctx := c.logg.WithCollection(ctx, c.key)
		c.logg.Error(lctx, "discarding unreadable collection payload", err)
	}
	return nil, false
}

// GetByID scans for the item with the given ID.
func (c *Collection[T]) GetByID(ctx context.Context, id string) (*T, error) {
	items, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].GetID() == id {
			return &items[i], nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no record with id "+id+" in "+c.key)
}

// Add appends a new item. The ID must not already exist.
func (c *Collection[T]) Add(ctx context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].GetID() == item.GetID() {
			return pkgerrors.New(pkgerrors.CodeConflict, "duplicate id "+item.GetID()+" in "+c.key)
		}
	}
	return c.persist(ctx, append(items, item))
}

// Update replaces the stored item with the same ID.
func (c *Collection[T]) Update(ctx context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].GetID() == item.GetID() {
			items[i] = item
			return c.persist(ctx, items)
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "no record with id "+item.GetID()+" in "+c.key)
}

// Delete removes the item with the given ID, reporting whether it existed.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.GetAll(ctx)
	if err != nil {
		return false, err
	}
	kept := items[:0]
	found := false
	for _, item := range items {
		if item.GetID() == id {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return false, nil
	}
	if err := c.persist(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// SaveAll overwrites the whole collection.
func (c *Collection[T]) SaveAll(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persist(ctx, items)
}

// Count returns the number of stored items.
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	items, err := c.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (c *Collection[T]) persist(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	if err := c.store.Set(ctx, c.key, document[T]{Version: schemaVersion, Items: items}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "writing collection "+c.key)
	}
	return nil
}

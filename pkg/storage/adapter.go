package storage

import "context"

// Adapter is the raw key/value contract every storage backend implements.
// Values are opaque strings; namespacing and serialization live one layer up
// in Service. Backend failures propagate untranslated.
type Adapter interface {
	// GetItem returns the stored value and whether the key exists.
	GetItem(ctx context.Context, key string) (string, bool, error)
	// SetItem stores the value under key, overwriting any previous value.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes the key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
	// Keys lists every stored key.
	Keys(ctx context.Context) ([]string, error)
	// HasKey reports whether the key exists.
	HasKey(ctx context.Context, key string) (bool, error)
	// Clear removes every key in the backend.
	Clear(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

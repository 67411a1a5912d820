package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/angelmondragon/nutritrack-backend/pkg/logger"
)

// Service is the translation boundary between typed application data and raw
// string storage. It namespaces keys with a constant prefix and (de)serializes
// values as JSON.
//
// A value that fails to parse is treated as absent: the corruption is logged
// and the caller sees a miss, not an error. Writes surface every failure.
type Service struct {
	adapter Adapter
	prefix  string
	logg    *logger.Logger
}

// NewService wraps an adapter with a key prefix. An empty prefix disables
// namespacing, which also widens Clear to the whole backend.
func NewService(adapter Adapter, prefix string, logg *logger.Logger) (*Service, error) {
	if adapter == nil {
		return nil, fmt.Errorf("storage adapter required")
	}
	return &Service{adapter: adapter, prefix: prefix, logg: logg}, nil
}

func (s *Service) storageKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "_" + key
}

// Get reads and unmarshals the value at key into out. It reports false when
// the key is missing or the stored payload does not parse.
func (s *Service) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, ok, err := s.adapter.GetItem(ctx, s.storageKey(key))
	if err != nil {
		return false, fmt.Errorf("storage get %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		if s.logg != nil {
			ctx = s.logg.WithField(ctx, "key", key)
			s.logg.Error(ctx, "discarding unparseable stored payload", err)
		}
		return false, nil
	}
	return true, nil
}

// Set marshals the value and stores it under key.
func (s *Service) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage marshal %q: %w", key, err)
	}
	if err := s.adapter.SetItem(ctx, s.storageKey(key), string(raw)); err != nil {
		return fmt.Errorf("storage set %q: %w", key, err)
	}
	return nil
}

// Remove deletes the value at key.
func (s *Service) Remove(ctx context.Context, key string) error {
	if err := s.adapter.RemoveItem(ctx, s.storageKey(key)); err != nil {
		return fmt.Errorf("storage remove %q: %w", key, err)
	}
	return nil
}

// Has reports whether a value exists at key.
func (s *Service) Has(ctx context.Context, key string) (bool, error) {
	ok, err := s.adapter.HasKey(ctx, s.storageKey(key))
	if err != nil {
		return false, fmt.Errorf("storage has %q: %w", key, err)
	}
	return ok, nil
}

// Keys lists the stored keys in this service's namespace, prefix stripped.
func (s *Service) Keys(ctx context.Context) ([]string, error) {
	raw, err := s.adapter.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage keys: %w", err)
	}
	if s.prefix == "" {
		return raw, nil
	}
	var keys []string
	for _, key := range raw {
		if strings.HasPrefix(key, s.prefix+"_") {
			keys = append(keys, strings.TrimPrefix(key, s.prefix+"_"))
		}
	}
	return keys, nil
}

// Clear removes only keys in this service's namespace. With no prefix
// configured it wipes the whole backend.
func (s *Service) Clear(ctx context.Context) error {
	if s.prefix == "" {
		if err := s.adapter.Clear(ctx); err != nil {
			return fmt.Errorf("storage clear: %w", err)
		}
		return nil
	}
	raw, err := s.adapter.Keys(ctx)
	if err != nil {
		return fmt.Errorf("storage clear: %w", err)
	}
	for _, key := range raw {
		if !strings.HasPrefix(key, s.prefix+"_") {
			continue
		}
		if err := s.adapter.RemoveItem(ctx, key); err != nil {
			return fmt.Errorf("storage clear %q: %w", key, err)
		}
	}
	return nil
}

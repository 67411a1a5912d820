package cron

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeLockStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{values: map[string]string{}}
}

func (f *fakeLockStore) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value
	return true, nil
}

func (f *fakeLockStore) GetItem(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	return value, ok, nil
}

func (f *fakeLockStore) RemoveItem(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

func TestRedisLockExcludesSecondOwner(t *testing.T) {
	ctx := context.Background()
	store := newFakeLockStore()

	first, err := NewRedisLock(store, "cron_lock", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	second, err := NewRedisLock(store, "cron_lock", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	ok, err := first.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire = %v, %v, want success", ok, err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || ok {
		t.Fatalf("second acquire = %v, %v, want denial", ok, err)
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("acquire after release = %v, %v, want success", ok, err)
	}
}

func TestRedisLockReleaseLeavesForeignOwner(t *testing.T) {
	ctx := context.Background()
	store := newFakeLockStore()

	lock, err := NewRedisLock(store, "cron_lock", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}
	if ok, err := lock.Acquire(ctx); err != nil || !ok {
		t.Fatalf("acquire = %v, %v, want success", ok, err)
	}

	// Simulate TTL expiry plus takeover by another worker.
	store.mu.Lock()
	store.values["cron_lock"] = "someone-else"
	store.mu.Unlock()

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.values["cron_lock"] != "someone-else" {
		t.Fatal("release must not delete a foreign owner's lock")
	}
}

func TestLocalLockIsExclusive(t *testing.T) {
	ctx := context.Background()
	lock := NewLocalLock()

	if ok, err := lock.Acquire(ctx); err != nil || !ok {
		t.Fatalf("acquire = %v, %v, want success", ok, err)
	}
	if ok, err := lock.Acquire(ctx); err != nil || ok {
		t.Fatalf("second acquire = %v, %v, want denial", ok, err)
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, err := lock.Acquire(ctx); err != nil || !ok {
		t.Fatalf("acquire after release = %v, %v, want success", ok, err)
	}
}

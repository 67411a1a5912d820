package storage

import (
	"context"
	"sort"
	"testing"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestService(t *testing.T, prefix string) *Service {
	t.Helper()
	svc, err := NewService(NewMemoryAdapter(), prefix, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "nutrition_app")

	in := payload{Name: "tomato", Count: 5}
	if err := svc.Set(ctx, "sample", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out payload
	ok, err := svc.Get(ctx, "sample", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected value to exist")
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestServiceMissReportsAbsent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "nutrition_app")

	var out payload
	ok, err := svc.Get(ctx, "nothing", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("missing key should report absent")
	}
}

func TestServiceUnparseablePayloadIsAMiss(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	svc, err := NewService(adapter, "nutrition_app", nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := adapter.SetItem(ctx, "nutrition_app_corrupt", "{not json"); err != nil {
		t.Fatalf("seed corrupt payload: %v", err)
	}

	var out payload
	ok, err := svc.Get(ctx, "corrupt", &out)
	if err != nil {
		t.Fatalf("corrupted payload should not error, got %v", err)
	}
	if ok {
		t.Fatal("corrupted payload should read as absent")
	}
}

func TestServicePrefixNamespacing(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	appSvc, err := NewService(adapter, "nutrition_app", nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	otherSvc, err := NewService(adapter, "other_app", nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := appSvc.Set(ctx, "ingredients", payload{Name: "a"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := appSvc.Set(ctx, "inventory", payload{Name: "b"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := otherSvc.Set(ctx, "ingredients", payload{Name: "c"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	keys, err := appSvc.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "ingredients" || keys[1] != "inventory" {
		t.Fatalf("unexpected namespaced keys: %v", keys)
	}

	// Clearing one namespace must not touch the other.
	if err := appSvc.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	var out payload
	if ok, _ := appSvc.Get(ctx, "ingredients", &out); ok {
		t.Fatal("cleared namespace should be empty")
	}
	ok, err := otherSvc.Get(ctx, "ingredients", &out)
	if err != nil || !ok {
		t.Fatalf("sibling namespace should survive clear (ok=%v err=%v)", ok, err)
	}
}

func TestServiceClearWithoutPrefixWipesEverything(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	bare, err := NewService(adapter, "", nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if err := adapter.SetItem(ctx, "anything", "1"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := bare.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	keys, err := adapter.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected full wipe, still have %v", keys)
	}
}

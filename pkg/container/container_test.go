package container

import (
	"strings"
	"testing"
)

func TestSingletonBuiltOnce(t *testing.T) {
	c := New()
	builds := 0
	c.Register("counter", func(Resolver) (any, error) {
		builds++
		return builds, nil
	}, true)

	first, err := c.Resolve("counter")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := c.Resolve("counter")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if first != 1 || second != 1 || builds != 1 {
		t.Fatalf("builds = %d values = %v, %v; want single cached build", builds, first, second)
	}
}

func TestTransientBuiltEachTime(t *testing.T) {
	c := New()
	builds := 0
	c.Register("counter", func(Resolver) (any, error) {
		builds++
		return builds, nil
	}, false)

	if _, err := c.Resolve("counter"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := c.Resolve("counter"); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if builds != 2 {
		t.Fatalf("builds = %d, want 2", builds)
	}
}

func TestUnknownTokenErrors(t *testing.T) {
	c := New()
	_, err := c.Resolve("ghost")
	if err == nil || !strings.Contains(err.Error(), "no registration") {
		t.Fatalf("err = %v, want unknown-token error", err)
	}
}

func TestFactoriesResolveDependencies(t *testing.T) {
	c := New()
	c.Register("prefix", func(Resolver) (any, error) {
		return "app", nil
	}, true)
	c.Register("key", func(r Resolver) (any, error) {
		prefix, err := ResolveAs[string](r, "prefix")
		if err != nil {
			return nil, err
		}
		return prefix + "_store", nil
	}, true)

	key, err := ResolveAs[string](c, "key")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if key != "app_store" {
		t.Fatalf("key = %q, want app_store", key)
	}
}

func TestCycleDetected(t *testing.T) {
	c := New()
	c.Register("a", func(r Resolver) (any, error) { return r.Resolve("b") }, true)
	c.Register("b", func(r Resolver) (any, error) { return r.Resolve("a") }, true)

	_, err := c.Resolve("a")
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("err = %v, want cycle error", err)
	}
}

func TestResolveAsTypeMismatch(t *testing.T) {
	c := New()
	c.Register("n", func(Resolver) (any, error) { return 42, nil }, true)

	_, err := ResolveAs[string](c, "n")
	if err == nil || !strings.Contains(err.Error(), "holds") {
		t.Fatalf("err = %v, want type mismatch", err)
	}
}

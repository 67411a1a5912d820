package container

import (
	"fmt"
	"sync"
)

// Resolver is the view of the container a factory gets, so factories can pull
// their own inputs without re-entering the public lock.
type Resolver interface {
	Resolve(token string) (any, error)
}

// Factory builds one dependency. Registration order does not matter, but the
// dependency graph must stay acyclic.
type Factory func(r Resolver) (any, error)

type registration struct {
	factory   Factory
	singleton bool
}

// Container is an explicit dependency registry. There is no package-level
// instance; callers construct one and pass it around.
type Container struct {
	mu            sync.Mutex
	registrations map[string]registration
	instances     map[string]any
	resolving     map[string]bool
}

// New constructs an empty container.
func New() *Container {
	return &Container{
		registrations: make(map[string]registration),
		instances:     make(map[string]any),
		resolving:     make(map[string]bool),
	}
}

// Register stores a factory under token. Singletons are built once and
// cached; non-singletons run the factory on every Resolve. Re-registering a
// token replaces the factory and drops any cached instance.
func (c *Container) Register(token string, factory Factory, singleton bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations[token] = registration{factory: factory, singleton: singleton}
	delete(c.instances, token)
}

// Resolve returns the dependency behind token, building it on first use for
// singletons. Unknown tokens and dependency cycles are errors, not panics.
func (c *Container) Resolve(token string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolve(token)
}

// resolve runs with the lock held; factories recurse through lockedResolver.
func (c *Container) resolve(token string) (any, error) {
	if instance, ok := c.instances[token]; ok {
		return instance, nil
	}
	reg, ok := c.registrations[token]
	if !ok {
		return nil, fmt.Errorf("container: no registration for token %q", token)
	}
	if c.resolving[token] {
		return nil, fmt.Errorf("container: dependency cycle at token %q", token)
	}

	c.resolving[token] = true
	instance, err := reg.factory(lockedResolver{c: c})
	delete(c.resolving, token)
	if err != nil {
		return nil, fmt.Errorf("container: factory for %q failed: %w", token, err)
	}
	if reg.singleton {
		c.instances[token] = instance
	}
	return instance, nil
}

type lockedResolver struct {
	c *Container
}

func (l lockedResolver) Resolve(token string) (any, error) {
	return l.c.resolve(token)
}

// ResolveAs resolves token and asserts the concrete type in one step.
func ResolveAs[T any](r Resolver, token string) (T, error) {
	var zero T
	instance, err := r.Resolve(token)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: token %q holds %T, not %T", token, instance, zero)
	}
	return typed, nil
}

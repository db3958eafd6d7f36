package provider

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps backend names to factories.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry creates an empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

// Register adds a factory. Registering a name twice is an error.
func (r *Registry[T]) Register(name string, factory Factory[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.factories[name]; dup {
		return fmt.Errorf("provider %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is Register for static wiring; it panics on a duplicate.
func (r *Registry[T]) MustRegister(name string, factory Factory[T]) *Registry[T] {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
	return r
}

// Create builds the named backend from cfg.
func (r *Registry[T]) Create(name string, cfg map[string]any) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown provider %q (available: %v)", name, r.Names())
	}
	return factory(cfg)
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

package script

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps module names to logiclet factories. New operation kinds are
// added by registering a factory; the interpreter itself never changes.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under module.
func (r *Registry) Register(module string, f Factory) error {
	if module == "" {
		return ErrEmptyModule
	}
	if f == nil {
		return fmt.Errorf("%w: %s", ErrNilFactory, module)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[module]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, module)
	}
	r.factories[module] = f
	return nil
}

// MustRegister is Register that panics on error, for package initialization.
func (r *Registry) MustRegister(module string, f Factory) {
	if err := r.Register(module, f); err != nil {
		panic(err)
	}
}

// Lookup returns the factory for module.
func (r *Registry) Lookup(module string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[module]
	return f, ok
}

// Modules lists the registered module names in sorted order.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

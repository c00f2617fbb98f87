package servant

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps request paths to servants for local routing.
type Registry struct {
	mu       sync.RWMutex
	servants map[string]Servant
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{servants: make(map[string]Servant)}
}

// Register binds path to s.
func (r *Registry) Register(path string, s Servant) error {
	if path == "" {
		return ErrEmptyPath
	}
	if s == nil {
		return fmt.Errorf("%w: %s", ErrNilServant, path)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.servants[path]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, path)
	}
	r.servants[path] = s
	return nil
}

// MustRegister is Register that panics on error, for static wiring.
func (r *Registry) MustRegister(path string, s Servant) {
	if err := r.Register(path, s); err != nil {
		panic(err)
	}
}

// Lookup returns the servant bound to path.
func (r *Registry) Lookup(path string) (Servant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.servants[path]
	return s, ok
}

// Paths returns the registered paths, sorted.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.servants))
	for p := range r.servants {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

package data

import (
	"fmt"
	"maps"
)

// Store is a request-scoped variable scope. Reads fall through to the parent
// chain, writes always land in the local scope.
//
// A Store has a single writer at a time. It performs no locking; handing it to
// another goroutine requires a synchronization point such as a channel send.
type Store struct {
	parent Getter
	vars   map[string]string
}

// NewStore creates an empty scope on top of parent, which may be nil.
func NewStore(parent Getter) *Store {
	return &Store{
		parent: parent,
		vars:   make(map[string]string),
	}
}

// NewStoreFrom creates a scope seeded with a copy of values.
func NewStoreFrom(parent Getter, values map[string]string) *Store {
	s := NewStore(parent)
	maps.Copy(s.vars, values)
	return s
}

func (s *Store) String() string {
	return fmt.Sprintf("data.Store{Vars: %d, Chained: %t}", len(s.vars), s.parent != nil)
}

// Get implements Getter.
func (s *Store) Get(name string) (string, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}
	if s.parent != nil {
		return s.parent.Get(name)
	}
	return "", false
}

// GetOr resolves name, returning dft when it is missing or empty.
func (s *Store) GetOr(name, dft string) string {
	return GetOr(s, name, dft)
}

// Set writes into the local scope only.
func (s *Store) Set(name, value string) {
	if name == "" {
		return
	}
	s.vars[name] = value
}

// Remove deletes name from the local scope. Ancestors are left untouched.
func (s *Store) Remove(name string) {
	delete(s.vars, name)
}

// Has reports whether name is defined in the local scope.
func (s *Store) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Transform expands ${name} references against this scope.
func (s *Store) Transform(template string) string {
	return Transform(s, template)
}

// ResolveIndirect resolves the variable named by the value of name.
func (s *Store) ResolveIndirect(name, dft string) string {
	return ResolveIndirect(s, name, dft)
}

// NewChild returns a scope whose parent is s.
func (s *Store) NewChild() *Store {
	return NewStore(s)
}

// Parent returns the enclosing getter, or nil at the top of a chain.
func (s *Store) Parent() Getter {
	return s.parent
}

// Root returns the outermost Store of the chain s belongs to. Request wide
// state, such as the call counter, lives there.
func (s *Store) Root() *Store {
	root := s
	for {
		parent, ok := root.parent.(*Store)
		if !ok || parent == nil {
			return root
		}
		root = parent
	}
}

// Snapshot copies the local scope.
func (s *Store) Snapshot() map[string]string {
	return maps.Clone(s.vars)
}

// Len returns the number of locally stored variables.
func (s *Store) Len() int {
	return len(s.vars)
}

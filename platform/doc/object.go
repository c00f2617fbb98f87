// Package doc defines the document boundary seen by scripts and servants.
// The runtime never parses or serializes documents; it only reads and writes
// named fields on the node it is handed.
package doc

import (
	"fmt"
	"maps"
)

// Object is one node of a message document.
type Object interface {
	// Get returns the raw value stored under key.
	Get(key string) (any, bool)
	// Set stores value under key, replacing any previous value.
	Set(key string, value any)
	// Child returns the object stored under key, creating it when create is true.
	Child(key string, create bool) (Object, bool)
}

// MapObject is a JSON-style Object backed by a map.
type MapObject map[string]any

// NewMapObject creates an empty MapObject.
func NewMapObject() MapObject {
	return make(MapObject)
}

// Get implements Object.
func (m MapObject) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Set implements Object.
func (m MapObject) Set(key string, value any) {
	m[key] = value
}

// Child implements Object.
func (m MapObject) Child(key string, create bool) (Object, bool) {
	switch v := m[key].(type) {
	case MapObject:
		return v, true
	case map[string]any:
		child := MapObject(v)
		m[key] = child
		return child, true
	}
	if !create {
		return nil, false
	}
	child := NewMapObject()
	m[key] = child
	return child, true
}

// Clone returns a shallow copy.
func (m MapObject) Clone() MapObject {
	return maps.Clone(m)
}

// Getter exposes the scalar fields of an Object as strings, so they can take
// part in variable resolution. Nested objects and lists are not visible.
type Getter struct {
	Object Object
}

// Get implements data.Getter.
func (g Getter) Get(name string) (string, bool) {
	if g.Object == nil {
		return "", false
	}
	v, ok := g.Object.Get(name)
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprint(val), true
	}
	return "", false
}

// Package props is the configuration boundary of the runtime. Logiclets and
// calls read their settings once, at configure time, through the typed
// accessors of Properties and never see the underlying source format.
package props

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/robbyt/go-logiclet/platform/data"
)

// Properties exposes typed, defaulting accessors over a configuration source.
type Properties interface {
	data.Getter

	// GetRaw returns the value exactly as configured.
	GetRaw(name, dft string) string
	// GetString returns the value with ${name} references expanded against
	// the properties themselves.
	GetString(name, dft string) string
	GetBool(name string, dft bool) bool
	GetInt(name string, dft int) int
	GetDuration(name string, dft time.Duration) time.Duration
	// Sub returns every value whose key starts with prefix+".", keyed by the
	// remainder of the key.
	Sub(prefix string) map[string]string
	// Names lists the locally defined keys in sorted order.
	Names() []string
}

// Map is a Properties backed by a flat string map with an optional parent.
// Lookups that miss locally fall through to the parent.
type Map struct {
	values map[string]string
	parent Properties
}

// New creates a Map from a copy of values.
func New(values map[string]string) *Map {
	m := &Map{values: make(map[string]string, len(values))}
	maps.Copy(m.values, values)
	return m
}

// WithParent creates a Map whose misses fall through to parent.
func WithParent(parent Properties, values map[string]string) *Map {
	m := New(values)
	m.parent = parent
	return m
}

func (m *Map) String() string {
	return fmt.Sprintf("props.Map{Keys: %d}", len(m.values))
}

// Get implements data.Getter.
func (m *Map) Get(name string) (string, bool) {
	if v, ok := m.values[name]; ok {
		return v, true
	}
	if m.parent != nil {
		return m.parent.Get(name)
	}
	return "", false
}

// Set stores a raw value locally.
func (m *Map) Set(name, value string) {
	m.values[name] = value
}

// GetRaw implements Properties.
func (m *Map) GetRaw(name, dft string) string {
	v, ok := m.Get(name)
	if !ok {
		return dft
	}
	return v
}

// GetString implements Properties.
func (m *Map) GetString(name, dft string) string {
	v, ok := m.Get(name)
	if !ok {
		return dft
	}
	v = data.Transform(m, v)
	if v == "" {
		return dft
	}
	return v
}

// GetBool implements Properties.
func (m *Map) GetBool(name string, dft bool) bool {
	v := strings.TrimSpace(m.GetString(name, ""))
	if v == "" {
		return dft
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return dft
	}
	return b
}

// GetInt implements Properties.
func (m *Map) GetInt(name string, dft int) int {
	v := strings.TrimSpace(m.GetString(name, ""))
	if v == "" {
		return dft
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return dft
	}
	return i
}

// GetDuration implements Properties. Bare integers are read as milliseconds.
func (m *Map) GetDuration(name string, dft time.Duration) time.Duration {
	v := strings.TrimSpace(m.GetString(name, ""))
	if v == "" {
		return dft
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return dft
	}
	return d
}

// Sub implements Properties. Parent values are included unless overridden.
func (m *Map) Sub(prefix string) map[string]string {
	out := make(map[string]string)
	if m.parent != nil {
		maps.Copy(out, m.parent.Sub(prefix))
	}
	p := prefix + "."
	for k, v := range m.values {
		if rest, ok := strings.CutPrefix(k, p); ok && rest != "" {
			out[rest] = v
		}
	}
	return out
}

// Names implements Properties.
func (m *Map) Names() []string {
	return slices.Sorted(maps.Keys(m.values))
}

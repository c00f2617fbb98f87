package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapObject(t *testing.T) {
	t.Parallel()

	t.Run("get and set", func(t *testing.T) {
		m := NewMapObject()
		_, ok := m.Get("a")
		assert.False(t, ok)

		m.Set("a", 1)
		v, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("child", func(t *testing.T) {
		m := NewMapObject()
		_, ok := m.Child("x", false)
		assert.False(t, ok)

		child, ok := m.Child("x", true)
		require.True(t, ok)
		child.Set("k", "v")

		again, ok := m.Child("x", false)
		require.True(t, ok)
		v, _ := again.Get("k")
		assert.Equal(t, "v", v)
	})

	t.Run("child from plain map", func(t *testing.T) {
		m := MapObject{"x": map[string]any{"k": "v"}}
		child, ok := m.Child("x", false)
		require.True(t, ok)
		v, _ := child.Get("k")
		assert.Equal(t, "v", v)
	})

	t.Run("scalar is not a child", func(t *testing.T) {
		m := MapObject{"x": "scalar"}
		_, ok := m.Child("x", false)
		assert.False(t, ok)
	})

	t.Run("clone", func(t *testing.T) {
		m := MapObject{"a": "1"}
		c := m.Clone()
		c.Set("a", "2")
		v, _ := m.Get("a")
		assert.Equal(t, "1", v)
	})
}

func TestGetter(t *testing.T) {
	t.Parallel()

	obj := MapObject{
		"name":   "alice",
		"age":    42,
		"ratio":  0.5,
		"active": true,
		"nested": MapObject{"a": "b"},
		"nil":    nil,
	}
	g := Getter{Object: obj}

	tests := []struct {
		key      string
		expected string
		found    bool
	}{
		{"name", "alice", true},
		{"age", "42", true},
		{"ratio", "0.5", true},
		{"active", "true", true},
		{"nested", "", false},
		{"nil", "", false},
		{"missing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, ok := g.Get(tt.key)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, v)
		})
	}

	t.Run("nil object", func(t *testing.T) {
		_, ok := Getter{}.Get("name")
		assert.False(t, ok)
	})
}

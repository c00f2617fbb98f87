package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransform(t *testing.T) {
	t.Parallel()

	vars := NewStoreFrom(nil, map[string]string{
		"name":  "alice",
		"greet": "hello",
		"loop":  "${loop}",
		"empty": "",
	})

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{name: "no references", template: "plain text", expected: "plain text"},
		{name: "empty template", template: "", expected: ""},
		{name: "single reference", template: "${name}", expected: "alice"},
		{name: "embedded references", template: "${greet}, ${name}!", expected: "hello, alice!"},
		{name: "unresolved reference", template: "hi ${missing}.", expected: "hi ."},
		{name: "empty value", template: "[${empty}]", expected: "[]"},
		{name: "empty name", template: "a${}b", expected: "ab"},
		{name: "unterminated", template: "x ${name", expected: "x ${name"},
		{name: "values are not rescanned", template: "${loop}", expected: "${loop}"},
		{name: "dollar without brace", template: "$name costs $5", expected: "$name costs $5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Transform(vars, tt.template))
		})
	}

	t.Run("nil getter", func(t *testing.T) {
		assert.Equal(t, "a-b", Transform(nil, "a-${x}b"))
	})

	t.Run("idempotent without references", func(t *testing.T) {
		in := "nothing to expand here"
		once := Transform(vars, in)
		assert.Equal(t, in, once)
		assert.Equal(t, once, Transform(vars, once))
	})
}

func TestGetOr(t *testing.T) {
	t.Parallel()

	vars := NewStoreFrom(nil, map[string]string{"a": "1", "blank": ""})

	assert.Equal(t, "1", GetOr(vars, "a", "dft"))
	assert.Equal(t, "dft", GetOr(vars, "missing", "dft"))
	assert.Equal(t, "dft", GetOr(vars, "blank", "dft"))
	assert.Equal(t, "dft", GetOr(vars, "", "dft"))
	assert.Equal(t, "dft", GetOr(nil, "a", "dft"))
}

func TestResolveIndirect(t *testing.T) {
	t.Parallel()

	vars := NewStoreFrom(nil, map[string]string{
		"pointer":  "target",
		"target":   "value",
		"dangling": "nowhere",
	})

	tests := []struct {
		name     string
		variable string
		expected string
	}{
		{name: "resolves target", variable: "pointer", expected: "value"},
		{name: "missing target", variable: "dangling", expected: "fallback"},
		{name: "missing pointer", variable: "nothing", expected: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveIndirect(vars, tt.variable, "fallback"))
		})
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	first := NewStoreFrom(nil, map[string]string{"a": "first"})
	second := NewStoreFrom(nil, map[string]string{"a": "second", "b": "second"})
	chain := NewChain(nil, first, second)

	assert.Len(t, chain, 2)

	v, ok := chain.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = chain.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "second", v)

	_, ok = chain.Get("c")
	assert.False(t, ok)
}

func TestGetterFunc(t *testing.T) {
	t.Parallel()
	g := GetterFunc(func(name string) (string, bool) {
		return name + "!", name != ""
	})
	assert.Equal(t, "x!", Transform(g, "${x}"))
}

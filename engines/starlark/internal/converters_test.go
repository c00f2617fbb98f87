package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-logiclet/platform/doc"
)

func TestToGo(t *testing.T) {
	t.Parallel()

	dict := starlarkLib.NewDict(2)
	require.NoError(t, dict.SetKey(starlarkLib.String("a"), starlarkLib.MakeInt(1)))
	require.NoError(t, dict.SetKey(starlarkLib.MakeInt(2), starlarkLib.NewList([]starlarkLib.Value{starlarkLib.True})))

	tests := []struct {
		name string
		in   starlarkLib.Value
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "none", in: starlarkLib.None, want: nil},
		{name: "bool", in: starlarkLib.True, want: true},
		{name: "int", in: starlarkLib.MakeInt(42), want: int64(42)},
		{name: "float", in: starlarkLib.Float(1.5), want: 1.5},
		{name: "string", in: starlarkLib.String("x"), want: "x"},
		{name: "tuple", in: starlarkLib.Tuple{starlarkLib.String("a"), starlarkLib.None}, want: []any{"a", nil}},
		{name: "dict", in: dict, want: map[string]any{"a": int64(1), "2": []any{true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ToGo(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		t.Parallel()
		_, err := ToGo(starlarkLib.NewSet(0))
		require.ErrorIs(t, err, ErrUnsupportedType)
	})
}

func TestToStarlark(t *testing.T) {
	t.Parallel()

	v := ToStarlark(doc.MapObject{
		"s":    "x",
		"n":    3,
		"f":    2.5,
		"b":    false,
		"list": []any{"a", int64(7)},
		"sub":  map[string]string{"k": "v"},
		"nil":  nil,
		"odd":  struct{ A int }{1},
	})
	d, ok := v.(*starlarkLib.Dict)
	require.True(t, ok)

	back, err := ToGo(d)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"s":    "x",
		"n":    int64(3),
		"f":    2.5,
		"b":    false,
		"list": []any{"a", int64(7)},
		"sub":  map[string]any{"k": "v"},
		"nil":  nil,
		"odd":  "{1}",
	}, back)
}

func TestText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "", Text(starlarkLib.None))
	assert.Equal(t, "plain", Text(starlarkLib.String("plain")))
	assert.Equal(t, "3", Text(starlarkLib.MakeInt(3)))
	assert.Equal(t, "True", Text(starlarkLib.True))
	assert.Equal(t, `["a", 1]`, Text(starlarkLib.NewList([]starlarkLib.Value{starlarkLib.String("a"), starlarkLib.MakeInt(1)})))
}

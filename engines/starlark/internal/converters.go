package internal

import (
	"fmt"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-logiclet/platform/doc"
)

// ToGo converts a Starlark value to plain Go data: nil, bool, int64, float64,
// string, []any or map[string]any.
func ToGo(v starlarkLib.Value) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch v := v.(type) {
	case starlarkLib.NoneType:
		return nil, nil
	case starlarkLib.Bool:
		return bool(v), nil
	case starlarkLib.Int:
		if i, ok := v.Int64(); ok {
			return i, nil
		}
		return v.String(), nil
	case starlarkLib.Float:
		return float64(v), nil
	case starlarkLib.String:
		return string(v), nil
	case *starlarkLib.List:
		list := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := ToGo(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element: %w", err)
			}
			list = append(list, elem)
		}
		return list, nil
	case starlarkLib.Tuple:
		list := make([]any, 0, len(v))
		for _, e := range v {
			elem, err := ToGo(e)
			if err != nil {
				return nil, fmt.Errorf("failed to convert tuple element: %w", err)
			}
			list = append(list, elem)
		}
		return list, nil
	case *starlarkLib.Dict:
		dict := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key, ok := item[0].(starlarkLib.String)
			if !ok {
				key = starlarkLib.String(item[0].String())
			}
			vv, err := ToGo(item[1])
			if err != nil {
				return nil, fmt.Errorf("failed to convert dict value %q: %w", string(key), err)
			}
			dict[string(key)] = vv
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, v.Type())
	}
}

// ToStarlark converts plain Go data to a Starlark value. Values of other
// types are rendered with fmt.
func ToStarlark(v any) starlarkLib.Value {
	switch val := v.(type) {
	case nil:
		return starlarkLib.None
	case starlarkLib.Value:
		return val
	case bool:
		return starlarkLib.Bool(val)
	case int:
		return starlarkLib.MakeInt(val)
	case int64:
		return starlarkLib.MakeInt64(val)
	case float64:
		return starlarkLib.Float(val)
	case string:
		return starlarkLib.String(val)
	case []any:
		elems := make([]starlarkLib.Value, len(val))
		for i, e := range val {
			elems[i] = ToStarlark(e)
		}
		return starlarkLib.NewList(elems)
	case map[string]string:
		dict := starlarkLib.NewDict(len(val))
		for k, e := range val {
			_ = dict.SetKey(starlarkLib.String(k), starlarkLib.String(e))
		}
		return dict
	case doc.MapObject:
		return ToStarlark(map[string]any(val))
	case map[string]any:
		dict := starlarkLib.NewDict(len(val))
		for k, e := range val {
			_ = dict.SetKey(starlarkLib.String(k), ToStarlark(e))
		}
		return dict
	}
	return starlarkLib.String(fmt.Sprint(v))
}

// Text renders a value the way it is stored in a variable: strings verbatim,
// None as "", everything else in Starlark notation.
func Text(v starlarkLib.Value) string {
	switch val := v.(type) {
	case nil, starlarkLib.NoneType:
		return ""
	case starlarkLib.String:
		return string(val)
	}
	return v.String()
}

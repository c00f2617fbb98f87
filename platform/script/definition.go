package script

import (
	"fmt"

	"github.com/robbyt/go-logiclet/platform/props"
)

const (
	keyModule   = "module"
	keyChildren = "children"
)

// Definition is the static description of one logiclet and its children, as
// read from a configuration source.
type Definition struct {
	Module   string
	Props    map[string]string
	Children []Definition
}

// ParseDefinition decodes a YAML or TOML script definition.
//
//	module: segment
//	children:
//	  - module: set
//	    id: greeting
//	    value: ${name}
//	    dft: world
//
// A top level without a module but with children is treated as a segment.
func ParseDefinition(format props.Format, content []byte) (Definition, error) {
	tree, err := props.Decode(format, content)
	if err != nil {
		return Definition{}, err
	}
	def, err := DefinitionFromTree(tree)
	if err != nil {
		return Definition{}, err
	}
	if def.Module == "" && len(def.Children) > 0 {
		def.Module = ModuleSegment
	}
	return def, nil
}

// DefinitionFromTree converts a decoded tree into a Definition. Nested tables
// other than children are flattened into dotted property names.
func DefinitionFromTree(tree map[string]any) (Definition, error) {
	def := Definition{Props: make(map[string]string)}

	for k, v := range tree {
		switch k {
		case keyModule:
			s, err := props.Scalar(v)
			if err != nil {
				return Definition{}, fmt.Errorf("%s: %w", keyModule, err)
			}
			def.Module = s
		case keyChildren:
			children, err := childTrees(v)
			if err != nil {
				return Definition{}, err
			}
			for i, c := range children {
				child, err := DefinitionFromTree(c)
				if err != nil {
					return Definition{}, fmt.Errorf("%s[%d]: %w", keyChildren, i, err)
				}
				def.Children = append(def.Children, child)
			}
		default:
			if nested, ok := v.(map[string]any); ok {
				if err := props.Flatten(k, nested, def.Props); err != nil {
					return Definition{}, err
				}
				continue
			}
			s, err := props.Scalar(v)
			if err != nil {
				return Definition{}, fmt.Errorf("%s: %w", k, err)
			}
			def.Props[k] = s
		}
	}

	return def, nil
}

func childTrees(v any) ([]map[string]any, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return list, nil
	case []any:
		out := make([]map[string]any, 0, len(list))
		for i, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: %w: %T", keyChildren, i, props.ErrUnsupportedType, item)
			}
			out = append(out, m)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: %w: %T", keyChildren, props.ErrUnsupportedType, v)
}

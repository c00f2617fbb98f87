package props

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names a structured configuration syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrFormatUnknown, path)
}

// Decode parses content into a generic tree.
func Decode(format Format, content []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptySource
	}

	tree := make(map[string]any)
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &tree); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(content)).Decode(&tree); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormatUnknown, format)
	}
	return tree, nil
}

// Parse decodes content and flattens it into a Map. Nested tables become
// dotted keys; lists are not allowed.
func Parse(format Format, content []byte) (*Map, error) {
	tree, err := Decode(format, content)
	if err != nil {
		return nil, err
	}
	flat := make(map[string]string)
	if err := Flatten("", tree, flat); err != nil {
		return nil, err
	}
	return New(flat), nil
}

// Flatten writes the scalar leaves of tree into out using dotted keys.
func Flatten(prefix string, tree map[string]any, out map[string]string) error {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			if err := Flatten(key, val, out); err != nil {
				return err
			}
		default:
			s, err := Scalar(val)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			out[key] = s
		}
	}
	return nil
}

// Scalar renders a decoded scalar value as a string.
func Scalar(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(val), nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

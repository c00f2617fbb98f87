package data

import "strings"

// Getter resolves a variable by name. The boolean reports whether the name was
// found anywhere along the lookup chain.
type Getter interface {
	Get(name string) (string, bool)
}

// GetterFunc adapts a function to the Getter interface.
type GetterFunc func(name string) (string, bool)

// Get implements Getter.
func (f GetterFunc) Get(name string) (string, bool) {
	return f(name)
}

// GetOr resolves name against g, returning dft when the name is missing or its
// value is empty.
func GetOr(g Getter, name, dft string) string {
	if g == nil || name == "" {
		return dft
	}
	v, ok := g.Get(name)
	if !ok || v == "" {
		return dft
	}
	return v
}

// ResolveIndirect treats the value of name as the name of another variable and
// resolves that one. Any failure along the way yields dft.
func ResolveIndirect(g Getter, name, dft string) string {
	target := GetOr(g, name, "")
	if target == "" {
		return dft
	}
	return GetOr(g, target, dft)
}

// Transform expands every ${name} reference in template using g.
// Unresolved references expand to the empty string. Expanded values are not
// scanned again, and an unterminated "${" is copied literally.
func Transform(g Getter, template string) string {
	if !strings.Contains(template, "${") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start+2:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}

		b.WriteString(rest[:start])
		name := rest[start+2 : start+2+end]
		if g != nil && name != "" {
			if v, ok := g.Get(name); ok {
				b.WriteString(v)
			}
		}
		rest = rest[start+2+end+1:]
	}

	return b.String()
}

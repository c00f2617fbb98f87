// Package internal holds the Starlark value plumbing shared by the compiler
// and the eval logiclet.
package internal

import (
	"maps"

	starlarkJSON "go.starlark.net/lib/json"
	starlarkMath "go.starlark.net/lib/math"
	starlarkTime "go.starlark.net/lib/time"
	starlarkLib "go.starlark.net/starlark"
)

// Module namespaces available to every snippet. Compile time and run time
// must agree on them.
const (
	namespaceJSON = "json"
	namespaceMath = "math"
	namespaceTime = "time"
)

// StarlarkModules returns a copy of the universe plus the json, math and
// time modules.
func StarlarkModules() starlarkLib.StringDict {
	universe := maps.Clone(starlarkLib.Universe)
	universe[namespaceJSON] = starlarkJSON.Module
	universe[namespaceMath] = starlarkMath.Module
	universe[namespaceTime] = starlarkTime.Module
	return universe
}

package compile

import (
	"fmt"

	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/robbyt/go-logiclet/engines/starlark/internal"
)

// Compile parses and resolves src. Names in predeclared are accepted as
// globals that will be supplied at run time, next to the standard modules.
func Compile(name string, src []byte, predeclared []string) (*starlarkLib.Program, error) {
	if src == nil {
		return nil, ErrContentNil
	}

	known := internal.StarlarkModules()
	for _, n := range predeclared {
		if !known.Has(n) {
			known[n] = starlarkLib.None
		}
	}

	opts := &syntax.FileOptions{}
	f, err := opts.Parse(name, src, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}

	prog, err := starlarkLib.FileProgram(f, known.Has)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
	}
	return prog, nil
}

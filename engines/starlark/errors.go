package starlark

import "errors"

var (
	ErrNoSource     = errors.New("eval needs a script or an expr")
	ErrBothSources  = errors.New("eval takes a script or an expr, not both")
	ErrExecFailed   = errors.New("starlark execution failed")
	ErrBadDirective = errors.New("unknown directive")
)

package plugins

import (
	"github.com/robbyt/go-logiclet/engines/starlark"
	"github.com/robbyt/go-logiclet/platform/script"
)

// NewRegistry returns a registry with every built-in operation.
func NewRegistry() *script.Registry {
	r := script.NewRegistry()
	r.MustRegister(script.ModuleSegment, script.NewSegment)
	r.MustRegister(ModuleSet, NewSet)
	r.MustRegister(ModuleBreak, NewBreak)
	r.MustRegister(ModuleExit, NewExit)
	r.MustRegister(ModuleLog, NewLog)
	r.MustRegister(ModuleCall, NewCall)
	r.MustRegister(starlark.ModuleEval, starlark.NewEval)
	return r
}

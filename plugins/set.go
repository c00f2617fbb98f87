package plugins

import (
	"context"

	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/platform/script"
)

// ModuleSet is the module name of Set.
const ModuleSet = "set"

// Set stores a variable into the current scope.
//
// Properties:
//   - id: target variable; empty makes the logiclet a no-op
//   - value: template for the value
//   - dft: template used when value expands to ""
//   - ref: when true the expanded value names the variable to copy
type Set struct {
	id    string
	value string
	dft   string
	ref   bool
}

// NewSet is the Factory for ModuleSet.
func NewSet(_ *script.Env) script.Logiclet {
	return &Set{}
}

func (s *Set) Configure(p props.Properties) error {
	s.id = p.GetString("id", "")
	s.value = p.GetRaw("value", "")
	s.dft = p.GetRaw("dft", "")
	s.ref = p.GetBool("ref", false)
	return nil
}

func (s *Set) Execute(_ context.Context, _, current doc.Object, vars *data.Store) (script.Directive, error) {
	if s.id == "" {
		return script.Continue, nil
	}
	if vars == nil {
		return script.Exit, script.ErrNoVariables
	}

	r := script.Resolver(current, vars)
	v := data.Transform(r, s.value)
	dft := data.Transform(r, s.dft)
	if v == "" {
		v = dft
	}
	if s.ref {
		v = data.GetOr(r, v, dft)
	}
	vars.Set(s.id, v)
	return script.Continue, nil
}

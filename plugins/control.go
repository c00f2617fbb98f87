package plugins

import (
	"context"
	"strings"

	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/platform/script"
)

const (
	ModuleBreak = "break"
	ModuleExit  = "exit"
)

// Control returns a fixed directive, optionally guarded by the "when"
// template. An unguarded Control always fires; a guarded one fires when the
// expansion is non-empty and not "false" or "0".
type Control struct {
	directive script.Directive
	when      string
	guarded   bool
}

// NewBreak is the Factory for ModuleBreak.
func NewBreak(_ *script.Env) script.Logiclet {
	return &Control{directive: script.Break}
}

// NewExit is the Factory for ModuleExit.
func NewExit(_ *script.Env) script.Logiclet {
	return &Control{directive: script.Exit}
}

func (c *Control) Configure(p props.Properties) error {
	_, c.guarded = p.Get("when")
	c.when = p.GetRaw("when", "")
	return nil
}

func (c *Control) Execute(_ context.Context, _, current doc.Object, vars *data.Store) (script.Directive, error) {
	if !c.guarded {
		return c.directive, nil
	}
	if truthy(data.Transform(script.Resolver(current, vars), c.when)) {
		return c.directive, nil
	}
	return script.Continue, nil
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false", "0", "no", "off":
		return false
	}
	return true
}

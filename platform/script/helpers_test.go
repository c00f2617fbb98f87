package script

import (
	"context"
	"errors"

	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
	"github.com/robbyt/go-logiclet/platform/props"
)

// recorder appends its configured name to the "trace" variable and returns a
// fixed directive.
type recorder struct {
	name      string
	directive Directive
	err       error
}

func newRecorder(_ *Env) Logiclet { return &recorder{} }

func (r *recorder) Configure(p props.Properties) error {
	r.name = p.GetString("name", "?")
	switch p.GetRaw("directive", "") {
	case "break":
		r.directive = Break
	case "exit":
		r.directive = Exit
	}
	if msg := p.GetRaw("fail", ""); msg != "" {
		r.err = errors.New(msg)
	}
	if p.GetBool("badConfig", false) {
		return errors.New("bad config for " + r.name)
	}
	return nil
}

func (r *recorder) Execute(_ context.Context, _, _ doc.Object, vars *data.Store) (Directive, error) {
	vars.Set("trace", vars.GetOr("trace", "")+r.name)
	return r.directive, r.err
}

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister(ModuleSegment, NewSegment)
	reg.MustRegister("rec", newRecorder)
	return reg
}

func rec(name string, extra ...string) Definition {
	p := map[string]string{"name": name}
	for i := 0; i+1 < len(extra); i += 2 {
		p[extra[i]] = extra[i+1]
	}
	return Definition{Module: "rec", Props: p}
}

func seg(children ...Definition) Definition {
	return Definition{Module: ModuleSegment, Props: map[string]string{}, Children: children}
}

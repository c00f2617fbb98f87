// Package starlark provides the eval operation: a Starlark snippet compiled
// when the script is built and run against the request variables each time
// the operation executes.
//
// Snippets see the json, math and time modules plus:
//
//	getvar(name, default="")  read a variable (current node fields first)
//	setvar(name, value)       store a variable in the current scope
//	directive(name)           "continue", "break" or "exit" after the snippet
//	node                      read-only copy of the current document node
//
// The value of the global "result" is the snippet's outcome.
package starlark

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-logiclet/engines/starlark/internal"
	"github.com/robbyt/go-logiclet/engines/starlark/internal/compile"
	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/platform/script"
)

// ModuleEval is the module name of Eval.
const ModuleEval = "eval"

const (
	resultGlobal   = "result"
	nodeGlobal     = "node"
	directiveLocal = "logiclet.directive"
)

var builtinNames = []string{"getvar", "setvar", "directive", nodeGlobal}

// Eval runs a compiled Starlark snippet.
//
// Properties:
//   - script: program text, its "result" global is the outcome
//   - expr: a single expression used as the outcome
//   - id: variable receiving the outcome as text
//   - tag: field of the current node receiving the outcome as data
type Eval struct {
	logger *slog.Logger

	name   string
	id     string
	tag    string
	source string
	prog   *starlarkLib.Program
}

// NewEval is the Factory for ModuleEval.
func NewEval(env *script.Env) script.Logiclet {
	var h slog.Handler
	if env != nil {
		h = env.Handler
	}
	_, logger := helpers.SetupLogger(h, "starlark", "Eval")
	return &Eval{logger: logger}
}

func (e *Eval) String() string {
	return fmt.Sprintf("starlark.Eval{Name: %s}", e.name)
}

func (e *Eval) Configure(p props.Properties) error {
	e.id = p.GetString("id", "")
	e.tag = p.GetString("tag", "")

	src := p.GetRaw("script", "")
	expr := p.GetRaw("expr", "")
	switch {
	case src != "" && expr != "":
		return ErrBothSources
	case expr != "":
		src = resultGlobal + " = (" + expr + "\n)\n"
	case src == "":
		return ErrNoSource
	}
	e.source = src
	e.name = p.GetString("name", "eval-"+helpers.ShortID([]byte(src))+".star")

	prog, err := compile.Compile(e.name, []byte(src), builtinNames)
	if err != nil {
		return err
	}
	e.prog = prog
	return nil
}

func (e *Eval) Execute(ctx context.Context, _, current doc.Object, vars *data.Store) (script.Directive, error) {
	if vars == nil {
		return script.Exit, script.ErrNoVariables
	}
	logger := e.logger.With("name", e.name)
	start := time.Now()

	thread := &starlarkLib.Thread{
		Name: e.name,
		Print: func(_ *starlarkLib.Thread, msg string) {
			logger.InfoContext(ctx, msg)
		},
	}
	thread.SetLocal(directiveLocal, script.Continue)
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(ctx.Err().Error())
	})
	defer stop()

	globals, err := e.prog.Init(thread, e.predeclared(current, vars))
	if err != nil {
		return script.Exit, fmt.Errorf("%w: %s: %w", ErrExecFailed, e.name, err)
	}
	logger.DebugContext(ctx, "snippet executed", "duration", time.Since(start))

	if out, ok := globals[resultGlobal]; ok {
		if err := e.store(out, current, vars); err != nil {
			return script.Exit, err
		}
	}

	d, _ := thread.Local(directiveLocal).(script.Directive)
	return d, nil
}

func (e *Eval) store(out starlarkLib.Value, current doc.Object, vars *data.Store) error {
	if e.id != "" {
		vars.Set(e.id, internal.Text(out))
	}
	if e.tag != "" && current != nil {
		v, err := internal.ToGo(out)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrExecFailed, e.name, err)
		}
		current.Set(e.tag, v)
	}
	return nil
}

func (e *Eval) predeclared(current doc.Object, vars *data.Store) starlarkLib.StringDict {
	globals := internal.StarlarkModules()
	r := script.Resolver(current, vars)

	globals["getvar"] = starlarkLib.NewBuiltin("getvar", func(
		_ *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple,
	) (starlarkLib.Value, error) {
		var name, dft string
		if err := starlarkLib.UnpackArgs(b.Name(), args, kwargs, "name", &name, "default?", &dft); err != nil {
			return nil, err
		}
		return starlarkLib.String(data.GetOr(r, name, dft)), nil
	})

	globals["setvar"] = starlarkLib.NewBuiltin("setvar", func(
		_ *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple,
	) (starlarkLib.Value, error) {
		var name string
		var value starlarkLib.Value
		if err := starlarkLib.UnpackArgs(b.Name(), args, kwargs, "name", &name, "value", &value); err != nil {
			return nil, err
		}
		vars.Set(name, internal.Text(value))
		return starlarkLib.None, nil
	})

	globals["directive"] = starlarkLib.NewBuiltin("directive", func(
		thread *starlarkLib.Thread, b *starlarkLib.Builtin, args starlarkLib.Tuple, kwargs []starlarkLib.Tuple,
	) (starlarkLib.Value, error) {
		var name string
		if err := starlarkLib.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
			return nil, err
		}
		d, err := parseDirective(name)
		if err != nil {
			return nil, err
		}
		thread.SetLocal(directiveLocal, d)
		return starlarkLib.None, nil
	})

	node := starlarkLib.NewDict(0)
	if m, ok := current.(doc.MapObject); ok {
		if d, ok := internal.ToStarlark(m).(*starlarkLib.Dict); ok {
			node = d
		}
	}
	node.Freeze()
	globals[nodeGlobal] = node

	return globals
}

func parseDirective(name string) (script.Directive, error) {
	switch name {
	case "continue":
		return script.Continue, nil
	case "break":
		return script.Break, nil
	case "exit":
		return script.Exit, nil
	}
	return script.Continue, fmt.Errorf("%w: %q", ErrBadDirective, name)
}

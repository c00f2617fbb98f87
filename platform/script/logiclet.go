// Package script is the interpreter for operation scripts. A script is a tree
// of logiclets: each logiclet is configured once from static properties and
// then executed any number of times against a (document, variables) pair.
package script

import (
	"context"
	"log/slog"

	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/remote/call"
)

// Directive tells the enclosing segment how to proceed after a logiclet ran.
type Directive int

const (
	// Continue proceeds with the next sibling.
	Continue Directive = iota
	// Break stops the innermost segment; its parent carries on.
	Break
	// Exit unwinds the whole script.
	Exit
)

func (d Directive) String() string {
	switch d {
	case Continue:
		return "continue"
	case Break:
		return "break"
	case Exit:
		return "exit"
	}
	return "unknown"
}

// Logiclet is one configured operation.
//
// Configure is called exactly once, before the first Execute. Execute must
// not modify the logiclet itself: all per-execution state lives in vars and
// in the documents, so a configured logiclet may run concurrently against
// different variable stores.
type Logiclet interface {
	Configure(p props.Properties) error
	Execute(ctx context.Context, root, current doc.Object, vars *data.Store) (Directive, error)
}

// Container is a Logiclet that owns ordered children.
type Container interface {
	Logiclet
	AddChild(child Logiclet)
}

// CallOpener hands out a fresh, configured remote call by name. The caller
// owns the returned call and must close it.
type CallOpener interface {
	Open(name string) (call.Call, error)
}

// Env carries the collaborators logiclets may need. It is passed to every
// factory at build time.
type Env struct {
	// Handler is the log handler for logiclets; nil selects the default.
	Handler slog.Handler
	// Calls resolves remote calls for the call operation.
	Calls CallOpener
	// Globals is the parent of every logiclet's properties.
	Globals props.Properties
}

// Factory creates an unconfigured logiclet.
type Factory func(env *Env) Logiclet

// Resolver returns the lookup used to expand templates while a logiclet
// executes: scalar fields of the current document node first, then vars.
func Resolver(current doc.Object, vars *data.Store) data.Getter {
	if current == nil {
		if vars == nil {
			return data.NewChain()
		}
		return vars
	}
	if vars == nil {
		return doc.Getter{Object: current}
	}
	return data.NewChain(doc.Getter{Object: current}, vars)
}

package logiclet

import (
	"log/slog"

	"github.com/robbyt/go-logiclet/platform/script"
	"github.com/robbyt/go-logiclet/remote/call"
	"github.com/robbyt/go-logiclet/remote/call/httpcall"
	"github.com/robbyt/go-logiclet/remote/call/localcall"
	"github.com/robbyt/go-logiclet/remote/call/rediscall"
	"github.com/robbyt/go-logiclet/remote/call/wscall"
	"github.com/robbyt/go-logiclet/servant"
)

// ScriptServant serves requests by running a script with the task's document
// and variables. Script errors become the task's exception.
type ScriptServant struct {
	servant.Abstract
	name   string
	script *script.Script
}

// NewScriptServant wraps s as a servant.
func NewScriptServant(name string, s *script.Script) *ScriptServant {
	return &ScriptServant{name: name, script: s}
}

// Name implements servant.Named.
func (s *ScriptServant) Name() string {
	return s.name
}

// ActionProcess runs the script.
func (s *ScriptServant) ActionProcess(ctx *servant.Context) error {
	return s.script.Execute(ctx, ctx.Doc, ctx.Vars)
}

// NewCallRegistry returns a call registry knowing every transport. When
// router is not nil, the "local" module routes to it.
func NewCallRegistry(handler slog.Handler, router *localcall.Router) *call.Registry {
	r := call.NewRegistry()
	_ = r.RegisterModule(httpcall.Module, httpcall.Factory(handler))
	_ = r.RegisterModule(wscall.Module, wscall.Factory(handler))
	_ = r.RegisterModule(rediscall.Module, rediscall.Factory(handler))
	if router != nil {
		_ = r.RegisterModule(localcall.Module, localcall.Factory(router))
	}
	return r
}

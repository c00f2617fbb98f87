// Package servant runs backend handlers through a fixed lifecycle on a
// dedicated goroutine and tells the waiting caller, exactly once, when the
// work is over.
package servant

import (
	"context"
	"fmt"

	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
)

// Servant is a backend request handler.
//
// ActionBefore, ActionProcess and ActionAfter run in that order. The first
// failure (returned error or panic) skips the remaining phases and diverts to
// a single ActionException call. A servant may serve many tasks at once; the
// Context is the only per-task mutable state it should touch.
type Servant interface {
	ActionBefore(ctx *Context) error
	ActionProcess(ctx *Context) error
	ActionAfter(ctx *Context) error
	ActionException(ctx *Context, ex *Exception)
}

// Named is implemented by servants that want a readable name in logs and spans.
type Named interface {
	Name() string
}

// Context is the per-task state handed to a servant. It embeds the request's
// context.Context for deadlines and values.
type Context struct {
	context.Context

	// Request is the root of the variable chain.
	Request *data.RequestAttributes
	// Vars is the task's variable scope.
	Vars *data.Store
	// Doc is the response document.
	Doc doc.MapObject

	// Code and Reason are the outcome the caller inspects after completion.
	Code   string
	Reason string
}

// NewContext creates a task context whose variables sit on top of req.
func NewContext(ctx context.Context, req *data.RequestAttributes) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		req = &data.RequestAttributes{SN: NewSerial()}
	}
	return &Context{
		Context: ctx,
		Request: req,
		Vars:    data.NewStore(req),
		Doc:     doc.NewMapObject(),
		Code:    constants.CodeOK,
		Reason:  "It is successful",
	}
}

// SN returns the global serial number of the request.
func (c *Context) SN() string {
	return c.Vars.GetOr(constants.SN, "")
}

// Fail records a failed outcome.
func (c *Context) Fail(code, reason string) {
	c.Code = code
	c.Reason = reason
}

// Failed reports whether the outcome is not successful.
func (c *Context) Failed() bool {
	return c.Code != constants.CodeOK
}

func (c *Context) String() string {
	return fmt.Sprintf("servant.Context{SN: %s, Code: %s}", c.SN(), c.Code)
}

// Abstract is a Servant with empty phases. Embed it and override what is
// needed; its ActionException records the exception as the outcome.
type Abstract struct{}

func (Abstract) ActionBefore(*Context) error  { return nil }
func (Abstract) ActionProcess(*Context) error { return nil }
func (Abstract) ActionAfter(*Context) error   { return nil }

// ActionException records ex as the task outcome.
func (Abstract) ActionException(ctx *Context, ex *Exception) {
	ctx.Fail(ex.Code, ex.Message)
}

// Func adapts a process function into a Servant.
type Func func(ctx *Context) error

func (Func) ActionBefore(*Context) error         { return nil }
func (f Func) ActionProcess(ctx *Context) error  { return f(ctx) }
func (Func) ActionAfter(*Context) error          { return nil }
func (Func) ActionException(ctx *Context, ex *Exception) {
	ctx.Fail(ex.Code, ex.Message)
}

// Package localcall routes calls to servants registered in the same process.
// The servant runs on its own goroutine through a servant.Dispatcher, exactly
// as it would behind a network transport.
package localcall

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/remote/call"
	"github.com/robbyt/go-logiclet/servant"
)

// Module is the registry name of this transport.
const Module = "local"

// Router serves requests by path from a servant registry.
type Router struct {
	servants   *servant.Registry
	dispatcher *servant.Dispatcher
}

// NewRouter creates a Router. A nil dispatcher gets a default one.
func NewRouter(servants *servant.Registry, dispatcher *servant.Dispatcher) *Router {
	if dispatcher == nil {
		dispatcher = servant.NewDispatcher()
	}
	return &Router{servants: servants, dispatcher: dispatcher}
}

// Invoke implements call.Handler. Unknown paths are reported as a failed
// result, a wait that ends before the servant finishes as call.ErrTimeout.
func (r *Router) Invoke(ctx context.Context, req *call.Request) (*call.Result, error) {
	s, ok := r.servants.Lookup(req.Path)
	if !ok {
		return call.Failed(constants.CodeNotFound, fmt.Sprintf("%s: %s", servant.ErrServiceUnknown, req.Path)), nil
	}

	attrs := &data.RequestAttributes{
		SN:     req.SN,
		Order:  req.Order,
		Path:   req.Path,
		URI:    req.Path,
		Params: maps.Clone(req.Params),
	}
	if attrs.SN == "" {
		attrs.SN = call.NewSerial()
	}
	sctx := servant.NewContext(context.WithoutCancel(ctx), attrs)

	task, err := r.dispatcher.Invoke(ctx, s, sctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %s: %w", call.ErrTimeout, req.Path, err)
		}
		return nil, err
	}

	done := task.Context()
	res := &call.Result{
		Code:    done.Code,
		Reason:  done.Reason,
		SN:      attrs.SN,
		Order:   attrs.Order,
		Payload: map[string]any(done.Doc),
	}
	return res, nil
}

// Call is a call.Call served in process.
type Call struct {
	*call.Base
}

type invoker struct {
	*Router
}

func (invoker) Release() error { return nil }

// New creates a Call routed through r.
func New(r *Router) *Call {
	return &Call{Base: call.NewBase(Module, invoker{r})}
}

// Factory returns a call.Factory producing calls routed through r.
func Factory(r *Router) call.Factory {
	return func() call.Call { return New(r) }
}

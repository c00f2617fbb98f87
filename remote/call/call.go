// Package call is the client side contract for invoking a path addressed
// operation that may live in another process. Every invocation carries the
// global serial number of the originating request and the order of the call
// within it, so a multi-hop request can be reconstructed from logs alone.
package call

import (
	"context"
	"io"

	"github.com/robbyt/go-logiclet/platform/props"
)

// Call is a scoped resource: acquire it, execute one or more times, then
// Close it. Close is safe to call more than once and after failed calls.
//
// All four Execute variants share one execution path. A path argument
// overrides the configured target; sn and order are attached verbatim.
type Call interface {
	io.Closer

	// Configure reads the call settings once, before the first Execute.
	Configure(p props.Properties) error
	// Report appends a self description to sink.
	Report(sink map[string]any)
	// NewParameters returns an empty parameter set.
	NewParameters() Parameters

	Execute(ctx context.Context, paras Parameters) (*Result, error)
	ExecutePath(ctx context.Context, path string, paras Parameters) (*Result, error)
	ExecuteSN(ctx context.Context, paras Parameters, sn, order string) (*Result, error)
	ExecutePathSN(ctx context.Context, path string, paras Parameters, sn, order string) (*Result, error)
}

// Handler serves a single request. Transports use it on the receiving side,
// calls use it on the sending side.
type Handler interface {
	Invoke(ctx context.Context, req *Request) (*Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *Request) (*Result, error)

// Invoke implements Handler.
func (f HandlerFunc) Invoke(ctx context.Context, req *Request) (*Result, error) {
	return f(ctx, req)
}

// Invoker is the transport behind a Base. Release frees held connections and
// is called at most once.
type Invoker interface {
	Handler
	Release() error
}

// Request is one outbound invocation.
type Request struct {
	Path   string     `json:"path"`
	Params Parameters `json:"params,omitempty"`
	SN     string     `json:"sn,omitempty"`
	Order  string     `json:"order,omitempty"`
}

// Parameters are the named string arguments of a call.
type Parameters map[string]string

// Set stores a parameter and returns the set for chaining.
func (p Parameters) Set(name, value string) Parameters {
	p[name] = value
	return p
}

// Get returns a parameter or dft when it is absent.
func (p Parameters) Get(name, dft string) string {
	if v, ok := p[name]; ok {
		return v
	}
	return dft
}

package call

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/platform/props"
)

// Base implements the parts of Call shared by every transport: the four
// Execute variants, timeouts, idempotent Close and the diagnostic report.
// Transports embed it and supply an Invoker.
type Base struct {
	module  string
	invoker Invoker

	path    string
	timeout time.Duration

	calls    atomic.Int64
	failures atomic.Int64

	closeOnce sync.Once
	closed    atomic.Bool
	closeErr  error
}

// NewBase creates a Base for the named module.
func NewBase(module string, invoker Invoker) *Base {
	return &Base{module: module, invoker: invoker}
}

// Configure reads "path" (default target) and "timeout".
func (b *Base) Configure(p props.Properties) error {
	b.path = p.GetString("path", b.path)
	b.timeout = p.GetDuration("timeout", b.timeout)
	return nil
}

// Module returns the transport name.
func (b *Base) Module() string {
	return b.module
}

// Path returns the configured default target.
func (b *Base) Path() string {
	return b.path
}

// Timeout returns the per-invocation timeout, zero when unbounded.
func (b *Base) Timeout() time.Duration {
	return b.timeout
}

// NewParameters implements Call.
func (b *Base) NewParameters() Parameters {
	return make(Parameters)
}

// Execute implements Call.
func (b *Base) Execute(ctx context.Context, paras Parameters) (*Result, error) {
	return b.ExecutePathSN(ctx, "", paras, "", "")
}

// ExecutePath implements Call.
func (b *Base) ExecutePath(ctx context.Context, path string, paras Parameters) (*Result, error) {
	return b.ExecutePathSN(ctx, path, paras, "", "")
}

// ExecuteSN implements Call.
func (b *Base) ExecuteSN(ctx context.Context, paras Parameters, sn, order string) (*Result, error) {
	return b.ExecutePathSN(ctx, "", paras, sn, order)
}

// ExecutePathSN implements Call. It always returns a non-nil Result; the error
// is set when the invocation could not complete.
func (b *Base) ExecutePathSN(
	ctx context.Context,
	path string,
	paras Parameters,
	sn, order string,
) (*Result, error) {
	if b.closed.Load() {
		return Failed(constants.CodeRemoteError, ErrClosed.Error()), ErrClosed
	}
	if path == "" {
		path = b.path
	}
	if path == "" {
		return Failed(constants.CodeRemoteError, ErrNoPath.Error()), ErrNoPath
	}
	if paras == nil {
		paras = make(Parameters)
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	req := &Request{Path: path, Params: paras, SN: sn, Order: order}

	b.calls.Add(1)
	start := time.Now()
	res, err := b.invoke(ctx, req)
	res.Duration = time.Since(start)

	if res.SN == "" {
		res.SN = sn
	}
	if res.Order == "" {
		res.Order = order
	}
	if err != nil || !res.OK() {
		b.failures.Add(1)
	}
	return res, err
}

func (b *Base) invoke(ctx context.Context, req *Request) (res *Result, err error) {
	if b.invoker == nil {
		return Failed(constants.CodeRemoteError, "no invoker"), ErrTransport
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrTransport, r)
			res = Failed(constants.CodeRemoteError, err.Error())
		}
	}()

	res, err = b.invoker.Invoke(ctx, req)
	if res != nil {
		return res, err
	}

	switch {
	case err == nil:
		return Failed(constants.CodeRemoteError, ErrBadResponse.Error()), ErrBadResponse
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		return Failed(constants.CodeTimeout, err.Error()), err
	default:
		return Failed(constants.CodeRemoteError, err.Error()), err
	}
}

// Close releases the transport. Only the first call does any work; later
// calls return nil.
func (b *Base) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		if b.invoker != nil {
			b.closeErr = b.invoker.Release()
			err = b.closeErr
		}
	})
	return err
}

// Closed reports whether Close was called.
func (b *Base) Closed() bool {
	return b.closed.Load()
}

// Report implements Call.
func (b *Base) Report(sink map[string]any) {
	if sink == nil {
		return
	}
	sink["module"] = b.module
	sink["path"] = b.path
	sink["timeout"] = b.timeout.String()
	sink["calls"] = b.calls.Load()
	sink["failures"] = b.failures.Load()
	sink["closed"] = b.closed.Load()
	if b.closeErr != nil {
		sink["closeError"] = b.closeErr.Error()
	}
}

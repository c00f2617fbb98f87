package servant

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/robbyt/go-logiclet/bizlog"
	"github.com/robbyt/go-logiclet/internal/helpers"
)

const tracerName = "github.com/robbyt/go-logiclet/servant"

// Dispatcher runs servants through their lifecycle.
type Dispatcher struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	bizlog  bizlog.Logger
	service string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogHandler sets the slog handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(d *Dispatcher) {
		if handler != nil {
			_, d.logger = helpers.SetupLogger(handler, "servant", "Dispatcher")
		}
	}
}

// WithTracer replaces the globally registered tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) {
		if tracer != nil {
			d.tracer = tracer
		}
	}
}

// WithBizLogger records one business log entry per task.
func WithBizLogger(l bizlog.Logger) Option {
	return func(d *Dispatcher) {
		d.bizlog = l
	}
}

// WithServiceName names the dispatcher in business log records.
func WithServiceName(name string) Option {
	return func(d *Dispatcher) {
		d.service = name
	}
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		_, d.logger = helpers.SetupLogger(helpers.NopHandler(), "servant", "Dispatcher")
	}
	return d
}

func (d *Dispatcher) String() string {
	return "servant.Dispatcher"
}

// Dispatch starts the servant on its own goroutine and returns immediately.
func (d *Dispatcher) Dispatch(s Servant, ctx *Context) *Task {
	t := newTask(s, ctx)
	go d.run(t)
	return t
}

// Run executes the lifecycle on the calling goroutine.
func (d *Dispatcher) Run(s Servant, ctx *Context) *Task {
	t := newTask(s, ctx)
	d.run(t)
	return t
}

// Invoke dispatches and waits. On a wait timeout the task keeps running and
// is returned with the context error.
func (d *Dispatcher) Invoke(ctx context.Context, s Servant, sctx *Context) (*Task, error) {
	if s == nil {
		return nil, ErrNilServant
	}
	if sctx == nil {
		return nil, ErrNilContext
	}
	// The worker owns sctx once dispatched.
	sn := sctx.SN()
	t := d.Dispatch(s, sctx)
	if err := t.Wait(ctx); err != nil {
		d.logger.Warn("wait ended before servant finished",
			"sn", sn, "servant", servantName(s), "error", err)
		return t, err
	}
	return t, nil
}

func (d *Dispatcher) run(t *Task) {
	sctx := t.ctx
	name := servantName(t.servant)
	logger := d.logger.With("sn", sctx.SN(), "servant", name)

	spanCtx, span := d.tracer.Start(sctx.Context, "servant.task",
		trace.WithAttributes(
			attribute.String("logiclet.sn", sctx.SN()),
			attribute.String("logiclet.servant", name),
		),
		trace.WithSpanKind(trace.SpanKindServer),
	)
	sctx.Context = spanCtx

	defer close(t.done)
	defer func() {
		// ActionException itself may have panicked.
		if r := recover(); r != nil {
			logger.Error("exception handler panicked",
				"panic", r, "stack", string(debug.Stack()))
			if sctx.Code == "" || !sctx.Failed() {
				sctx.Fail(normalizePanic(r).Code, fmt.Sprint(r))
			}
		}
		t.elapsed.Store(int64(time.Since(t.started)))
		t.setState(StateDone)
		safe(logger, "finish span", func() { d.finishSpan(span, t) })
		safe(logger, "business log", func() { d.record(t, name) })
	}()

	if ex := d.phases(t, logger); ex != nil {
		t.ex.Store(ex)
		t.setState(StateException)
		logger.Debug("servant diverted to exception", "code", ex.Code, "message", ex.Message)
		t.servant.ActionException(sctx, ex)
	}
}

// phases runs before, process and after, stopping at the first fault.
func (d *Dispatcher) phases(t *Task, logger *slog.Logger) (ex *Exception) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("servant panicked",
				"state", t.State().String(), "panic", r, "stack", string(debug.Stack()))
			ex = normalizePanic(r)
		}
	}()

	steps := []struct {
		state State
		fn    func(*Context) error
	}{
		{StateBefore, t.servant.ActionBefore},
		{StateProcess, t.servant.ActionProcess},
		{StateAfter, t.servant.ActionAfter},
	}
	for _, step := range steps {
		t.setState(step.state)
		if err := step.fn(t.ctx); err != nil {
			return Normalize(err)
		}
	}
	return nil
}

func (d *Dispatcher) finishSpan(span trace.Span, t *Task) {
	defer span.End()
	span.SetAttributes(attribute.String("logiclet.code", t.ctx.Code))
	if ex := t.Exception(); ex != nil {
		span.RecordError(ex)
		span.SetStatus(codes.Error, ex.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

func (d *Dispatcher) record(t *Task, name string) {
	if d.bizlog == nil {
		return
	}
	service := d.service
	if service == "" {
		service = name
	}
	d.bizlog.Log(bizlog.Record{
		SN:       t.ctx.SN(),
		Service:  service,
		Client:   t.ctx.Request.ClientIPReal,
		Code:     t.ctx.Code,
		Reason:   t.ctx.Reason,
		Start:    t.started,
		Duration: t.Duration(),
	})
}

// safe runs fn, logging instead of propagating a panic.
func safe(logger *slog.Logger, what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(what+" panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

func servantName(s Servant) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

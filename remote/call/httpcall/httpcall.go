// Package httpcall invokes remote servants with an HTTP POST carrying the
// parameters as JSON. Correlation travels in the GlobalSerial and
// GlobalSerialOrder headers.
package httpcall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/remote/call"
)

const (
	// Module is the registry name of this transport.
	Module = "http"

	tracerName  = "github.com/robbyt/go-logiclet/remote/call/httpcall"
	maxBodySize = 4 << 20
)

// Call is an HTTP call.Call. Configure it with "url" (base address), and
// optionally "path" and "timeout".
type Call struct {
	*call.Base
	t *transport
}

type transport struct {
	baseURL string
	client  *http.Client
	tracer  trace.Tracer
	logger  *slog.Logger
}

// New creates an unconfigured HTTP call. A nil client gets a private one.
func New(handler slog.Handler, client *http.Client) *Call {
	if client == nil {
		client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	_, logger := helpers.SetupLogger(handler, "httpcall", "Call")
	t := &transport{
		client: client,
		tracer: otel.Tracer(tracerName),
		logger: logger,
	}
	return &Call{Base: call.NewBase(Module, t), t: t}
}

// Factory returns a call.Factory for the registry.
func Factory(handler slog.Handler) call.Factory {
	return func() call.Call { return New(handler, nil) }
}

// Configure implements call.Call.
func (c *Call) Configure(p props.Properties) error {
	if err := c.Base.Configure(p); err != nil {
		return err
	}
	c.t.baseURL = strings.TrimRight(p.GetString("url", c.t.baseURL), "/")
	if c.t.baseURL == "" {
		return fmt.Errorf("%w: url is required", ErrConfig)
	}
	return nil
}

// Report implements call.Call.
func (c *Call) Report(sink map[string]any) {
	c.Base.Report(sink)
	sink["url"] = c.t.baseURL
}

func (t *transport) Invoke(ctx context.Context, req *call.Request) (*call.Result, error) {
	target := t.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	logger := t.logger.With("url", target, "sn", req.SN, "order", req.Order)

	ctx, span := t.tracer.Start(ctx, "httpcall.invoke",
		trace.WithAttributes(
			attribute.String("logiclet.path", req.Path),
			attribute.String("logiclet.sn", req.SN),
			attribute.String("logiclet.order", req.Order),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	res, err := t.roundTrip(ctx, target, req)
	if err != nil {
		logger.Warn("http call failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("logiclet.code", res.Code))
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func (t *transport) roundTrip(ctx context.Context, target string, req *call.Request) (*call.Result, error) {
	body, err := json.Marshal(req.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", call.ErrTransport, err)
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", call.ErrTransport, err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	if req.SN != "" {
		hreq.Header.Set(constants.HeaderSerial, req.SN)
	}
	if req.Order != "" {
		hreq.Header.Set(constants.HeaderSerialOrder, req.Order)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(hreq.Header))

	resp, err := t.client.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", call.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", call.ErrTransport, err)
	}

	res := &call.Result{}
	if err := json.Unmarshal(raw, res); err != nil || res.Code == "" {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", call.ErrTransport, resp.Status)
		}
		return nil, fmt.Errorf("%w: %s", call.ErrBadResponse, strings.TrimSpace(string(raw)))
	}
	return res, nil
}

func (t *transport) Release() error {
	t.client.CloseIdleConnections()
	return nil
}

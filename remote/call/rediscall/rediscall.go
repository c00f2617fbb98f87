// Package rediscall invokes remote servants through Redis lists. A request
// envelope is pushed onto a shared queue; the responder pushes the reply
// onto a per-request list the caller blocks on.
package rediscall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/remote/call"
)

const (
	// Module is the registry name of this transport.
	Module = "redis"

	DefaultQueue = "logiclet:calls"

	defaultWait    = 5 * time.Second
	defaultDial    = 3 * time.Second
	replyRetention = time.Minute
)

var ErrConfig = errors.New("invalid redis call configuration")

// Options are the connection settings shared by Call and Server.
type Options struct {
	Addr     string
	Password string
	DB       int
	Queue    string
	Dial     time.Duration
}

// OptionsFrom reads "addr", "password", "db", "queue" and "dial".
func OptionsFrom(p props.Properties) Options {
	return Options{
		Addr:     p.GetString("addr", "127.0.0.1:6379"),
		Password: p.GetRaw("password", ""),
		DB:       p.GetInt("db", 0),
		Queue:    p.GetString("queue", DefaultQueue),
		Dial:     p.GetDuration("dial", defaultDial),
	}
}

func (o Options) client() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        o.Addr,
		Password:    o.Password,
		DB:          o.DB,
		DialTimeout: o.Dial,
		MaxRetries:  -1,
	})
}

// Call is a Redis call.Call.
type Call struct {
	*call.Base
	q *queue
}

type queue struct {
	opts   Options
	rdb    *redis.Client
	logger *slog.Logger
}

// New creates an unconfigured Redis call.
func New(handler slog.Handler) *Call {
	_, logger := helpers.SetupLogger(handler, "rediscall", "Call")
	q := &queue{logger: logger, opts: Options{Queue: DefaultQueue, Dial: defaultDial}}
	return &Call{Base: call.NewBase(Module, q), q: q}
}

// Factory returns a call.Factory for the registry.
func Factory(handler slog.Handler) call.Factory {
	return func() call.Call { return New(handler) }
}

// Configure implements call.Call.
func (c *Call) Configure(p props.Properties) error {
	if err := c.Base.Configure(p); err != nil {
		return err
	}
	c.q.opts = OptionsFrom(p)
	if c.q.opts.Queue == "" {
		return fmt.Errorf("%w: queue is empty", ErrConfig)
	}
	return nil
}

// Report implements call.Call.
func (c *Call) Report(sink map[string]any) {
	c.Base.Report(sink)
	sink["addr"] = c.q.opts.Addr
	sink["queue"] = c.q.opts.Queue
	sink["connected"] = c.q.rdb != nil
}

func replyKey(queue, id string) string {
	return queue + ":reply:" + id
}

func (q *queue) Invoke(ctx context.Context, req *call.Request) (*call.Result, error) {
	if q.rdb == nil {
		q.rdb = q.opts.client()
	}

	id := uuid.NewString()
	env := call.Envelope{ID: id, ReplyTo: replyKey(q.opts.Queue, id), Request: req}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", call.ErrTransport, err)
	}
	if err := q.rdb.LPush(ctx, q.opts.Queue, raw).Err(); err != nil {
		return nil, classify(ctx, err)
	}

	wait := defaultWait
	if deadline, ok := ctx.Deadline(); ok {
		wait = time.Until(deadline)
		if wait <= 0 {
			return nil, fmt.Errorf("%w: %w", call.ErrTimeout, context.DeadlineExceeded)
		}
	}
	reply, err := q.rdb.BLPop(ctx, wait, env.ReplyTo).Result()
	if err != nil {
		return nil, classify(ctx, err)
	}
	if len(reply) != 2 {
		return nil, call.ErrBadResponse
	}

	var back call.Envelope
	if err := json.Unmarshal([]byte(reply[1]), &back); err != nil || back.Result == nil {
		return nil, fmt.Errorf("%w: %s", call.ErrBadResponse, reply[1])
	}
	if back.ID != id {
		q.logger.Warn("reply id mismatch", "id", back.ID, "want", id)
	}
	return back.Result, nil
}

func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, redis.Nil):
		return fmt.Errorf("%w: no reply", call.ErrTimeout)
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %w", call.ErrTimeout, ctx.Err())
	default:
		return fmt.Errorf("%w: %w", call.ErrTransport, err)
	}
}

func (q *queue) Release() error {
	if q.rdb == nil {
		return nil
	}
	err := q.rdb.Close()
	q.rdb = nil
	return err
}

package rediscall

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/remote/call"
)

// Server pops request envelopes from the queue and answers each one with
// handler on its own goroutine.
type Server struct {
	opts    Options
	rdb     *redis.Client
	handler call.Handler
	logger  *slog.Logger
	poll    time.Duration
	wg      sync.WaitGroup
}

// NewServer creates a responder for opts.Queue.
func NewServer(logHandler slog.Handler, opts Options, h call.Handler) *Server {
	_, logger := helpers.SetupLogger(logHandler, "rediscall", "Server")
	if opts.Queue == "" {
		opts.Queue = DefaultQueue
	}
	return &Server{
		opts:    opts,
		rdb:     opts.client(),
		handler: h,
		logger:  logger,
		poll:    time.Second,
	}
}

// Serve blocks until ctx ends, then waits for in-flight requests and closes
// the client.
func (s *Server) Serve(ctx context.Context) error {
	defer func() {
		s.wg.Wait()
		_ = s.rdb.Close()
	}()
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return err
	}
	s.logger.Info("serving", "addr", s.opts.Addr, "queue", s.opts.Queue)

	for {
		if ctx.Err() != nil {
			return nil
		}
		item, err := s.rdb.BLPop(ctx, s.poll, s.opts.Queue).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case ctx.Err() != nil:
			return nil
		case err != nil:
			s.logger.Warn("pop failed", "error", err)
			time.Sleep(s.poll)
			continue
		}
		if len(item) != 2 {
			continue
		}
		s.wg.Add(1)
		go func(raw string) {
			defer s.wg.Done()
			s.handle(context.WithoutCancel(ctx), raw)
		}(item[1])
	}
}

func (s *Server) handle(ctx context.Context, raw string) {
	var env call.Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil || env.ReplyTo == "" {
		s.logger.Warn("dropping malformed envelope", "error", err)
		return
	}
	if env.Request == nil {
		env.Result = call.Failed(constants.CodeFatal, "empty request")
	} else {
		env.Result = call.Respond(ctx, s.handler, env.Request)
	}
	env.Request = nil

	out, err := json.Marshal(env)
	if err != nil {
		s.logger.Error("encode reply", "id", env.ID, "error", err)
		return
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, env.ReplyTo, out)
		p.Expire(ctx, env.ReplyTo, replyRetention)
		return nil
	})
	if err != nil {
		s.logger.Warn("reply failed", "id", env.ID, "error", err)
	}
}

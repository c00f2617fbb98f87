// Package wscall invokes remote servants over one WebSocket session per
// Call. The session is dialed on first use, replies are matched to requests
// by envelope id, and Close ends the session.
package wscall

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/remote/call"
)

const (
	// Module is the registry name of this transport.
	Module = "ws"

	defaultHandshake = 10 * time.Second
)

var ErrConfig = errors.New("invalid websocket call configuration")

// Call is a WebSocket call.Call. Configure it with "url" (ws:// or wss://),
// and optionally "path", "timeout" and "handshake".
type Call struct {
	*call.Base
	s *session
}

type session struct {
	mu        sync.Mutex
	url       string
	handshake time.Duration
	conn      *websocket.Conn
	dials     int
	logger    *slog.Logger
}

// New creates an unconfigured WebSocket call.
func New(handler slog.Handler) *Call {
	_, logger := helpers.SetupLogger(handler, "wscall", "Call")
	s := &session{handshake: defaultHandshake, logger: logger}
	return &Call{Base: call.NewBase(Module, s), s: s}
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
	c.s.url = p.GetString("url", c.s.url)
	c.s.handshake = p.GetDuration("handshake", c.s.handshake)
	if c.s.url == "" {
		return fmt.Errorf("%w: url is required", ErrConfig)
	}
	return nil
}

// Report implements call.Call.
func (c *Call) Report(sink map[string]any) {
	c.Base.Report(sink)
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	sink["url"] = c.s.url
	sink["connected"] = c.s.conn != nil
	sink["dials"] = c.s.dials
}

func (s *session) connect(ctx context.Context) (*websocket.Conn, error) {
	if s.conn != nil {
		return s.conn, nil
	}
	dialer := websocket.Dialer{HandshakeTimeout: s.handshake}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", call.ErrTransport, s.url, err)
	}
	s.dials++
	s.conn = conn
	s.logger.Debug("session opened", "url", s.url)
	return conn, nil
}

// drop discards a session whose stream state is unknown.
func (s *session) drop() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
}

func (s *session) Invoke(ctx context.Context, req *call.Request) (*call.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		_ = conn.SetReadDeadline(deadline)
	} else {
		_ = conn.SetWriteDeadline(time.Time{})
		_ = conn.SetReadDeadline(time.Time{})
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := conn.WriteJSON(call.Envelope{ID: id, Request: req}); err != nil {
		s.drop()
		return nil, fmt.Errorf("%w: write: %w", call.ErrTransport, err)
	}

	for {
		var reply call.Envelope
		if err := conn.ReadJSON(&reply); err != nil {
			s.drop()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", call.ErrTimeout, ctxErr)
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				return nil, fmt.Errorf("%w: %w", call.ErrTimeout, err)
			}
			return nil, fmt.Errorf("%w: read: %w", call.ErrTransport, err)
		}
		if reply.ID != id {
			s.logger.Debug("discarding stale reply", "id", reply.ID, "want", id)
			continue
		}
		if reply.Result == nil {
			return call.Failed(constants.CodeRemoteError, call.ErrBadResponse.Error()), nil
		}
		return reply.Result, nil
	}
}

func (s *session) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := s.conn.Close()
	s.conn = nil
	return err
}

// NewHandler upgrades HTTP requests to WebSocket sessions and serves every
// request envelope received on them with h, one at a time per session.
func NewHandler(logHandler slog.Handler, h call.Handler) http.Handler {
	_, logger := helpers.SetupLogger(logHandler, "wscall", "Handler")
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		ctx := r.Context()
		for {
			var env call.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Debug("session ended", "error", err)
				}
				return
			}
			if env.Request == nil {
				env.Result = call.Failed(constants.CodeFatal, "empty request")
			} else {
				env.Result = call.Respond(ctx, h, env.Request)
			}
			env.Request = nil
			if err := conn.WriteJSON(env); err != nil {
				logger.Warn("write failed", "error", err)
				return
			}
		}
	})
}

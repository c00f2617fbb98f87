package wscall

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/remote/call"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newConfigured(t *testing.T, url string, extra map[string]string) *Call {
	t.Helper()
	values := map[string]string{"url": url}
	for k, v := range extra {
		values[k] = v
	}
	c := New(helpers.NopHandler())
	require.NoError(t, c.Configure(props.New(values)))
	return c
}

func TestWSCallRoundTrip(t *testing.T) {
	t.Parallel()

	var served atomic.Int64
	h := call.HandlerFunc(func(_ context.Context, req *call.Request) (*call.Result, error) {
		served.Add(1)
		return call.OK(map[string]any{
			"path":  req.Path,
			"sn":    req.SN,
			"order": req.Order,
			"x":     req.Params["x"],
		}), nil
	})
	srv := httptest.NewServer(NewHandler(helpers.NopHandler(), h))
	t.Cleanup(srv.Close)

	c := newConfigured(t, wsURL(srv), map[string]string{"path": "/ws"})

	for i, order := range []string{"1", "2", "3"} {
		res, err := c.ExecuteSN(context.Background(), call.Parameters{"x": order}, "sn-ws", order)
		require.NoError(t, err, "call %d", i)
		require.True(t, res.OK())
		assert.Equal(t, "/ws", res.Payload["path"])
		assert.Equal(t, "sn-ws", res.Payload["sn"])
		assert.Equal(t, order, res.Payload["order"])
		assert.Equal(t, order, res.Payload["x"])
	}

	sink := map[string]any{}
	c.Report(sink)
	assert.Equal(t, 1, sink["dials"], "one session per call")
	assert.Equal(t, true, sink["connected"])
	assert.Equal(t, int64(3), served.Load())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	sink = map[string]any{}
	c.Report(sink)
	assert.Equal(t, false, sink["connected"])
}

func TestWSCallCloseWithoutUse(t *testing.T) {
	t.Parallel()

	c := newConfigured(t, "ws://127.0.0.1:1", nil)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestWSCallDialFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	c := newConfigured(t, url, map[string]string{"path": "/x"})
	res, err := c.Execute(context.Background(), nil)
	require.ErrorIs(t, err, call.ErrTransport)
	assert.Equal(t, constants.CodeRemoteError, res.Code)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestWSCallTimeoutRedials(t *testing.T) {
	t.Parallel()

	var sessions atomic.Int64
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		n := sessions.Add(1)
		for {
			var env call.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			if n == 1 {
				// first session never answers
				continue
			}
			env.Result = call.OK(nil)
			env.Request = nil
			if err := conn.WriteJSON(env); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	c := newConfigured(t, wsURL(srv), map[string]string{"path": "/x", "timeout": "50ms"})
	defer c.Close()

	res, err := c.Execute(context.Background(), nil)
	require.ErrorIs(t, err, call.ErrTimeout)
	assert.Equal(t, constants.CodeTimeout, res.Code)

	res, err = c.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, int64(2), sessions.Load())
}

func TestWSCallConfig(t *testing.T) {
	t.Parallel()

	c := New(helpers.NopHandler())
	require.ErrorIs(t, c.Configure(props.New(nil)), ErrConfig)

	c = newConfigured(t, "ws://example.invalid", map[string]string{"handshake": "2s"})
	assert.Equal(t, 2*time.Second, c.s.handshake)
}

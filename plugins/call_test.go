package plugins

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/platform/script"
	"github.com/robbyt/go-logiclet/remote/call"
	"github.com/robbyt/go-logiclet/remote/call/localcall"
	"github.com/robbyt/go-logiclet/remote/call/mocks"
	"github.com/robbyt/go-logiclet/servant"
)

func localCalls(t *testing.T) *call.Registry {
	t.Helper()
	servants := servant.NewRegistry()
	servants.MustRegister("/user", servant.Func(func(ctx *servant.Context) error {
		id := ctx.Vars.GetOr("id", "")
		if id == "" {
			return servant.NewException("client.args_not_found", "id is required")
		}
		ctx.Doc.Set("id", id)
		ctx.Doc.Set("name", "user-"+id)
		ctx.Doc.Set("order", ctx.Vars.GetOr(constants.Order, ""))
		ctx.Doc.Set("tags", []any{"a", "b"})
		return nil
	}))

	reg := call.NewRegistry()
	require.NoError(t, reg.RegisterModule(localcall.Module, localcall.Factory(localcall.NewRouter(servants, nil))))
	require.NoError(t, reg.Define("user", props.New(map[string]string{"module": localcall.Module, "path": "/user"})))
	return reg
}

func callEnv(calls script.CallOpener) *script.Env {
	return &script.Env{Handler: helpers.NopHandler(), Calls: calls}
}

func TestCallPublishesOutcome(t *testing.T) {
	t.Parallel()

	l := NewCall(callEnv(localCalls(t)))
	require.NoError(t, l.Configure(props.New(map[string]string{
		"call":     "user",
		"id":       "u",
		"tag":      "user",
		"param.id": "${uid}",
	})))

	vars := data.NewStoreFrom(&data.RequestAttributes{SN: "sn-c", Order: "1"}, map[string]string{"uid": "42"})
	node := doc.NewMapObject()
	d, err := l.Execute(context.Background(), node, node, vars)
	require.NoError(t, err)
	assert.Equal(t, script.Continue, d)

	assert.Equal(t, constants.CodeOK, vars.GetOr("u.code", ""))
	assert.Equal(t, "user-42", vars.GetOr("u.name", ""))
	assert.Equal(t, "1.1", vars.GetOr("u.order", ""), "child order derived from request order")
	assert.False(t, vars.Has("u.tags"), "non scalar payload fields are not variables")
	assert.NotEmpty(t, vars.GetOr("u.duration", ""))

	payload, ok := node.Get("user")
	require.True(t, ok)
	assert.Equal(t, "42", payload.(map[string]any)["id"])

	_, err = l.Execute(context.Background(), node, node, vars)
	require.NoError(t, err)
	assert.Equal(t, "1.2", vars.GetOr("u.order", ""), "order advances per call")
}

func TestCallFailures(t *testing.T) {
	t.Parallel()

	t.Run("remote failure without raise", func(t *testing.T) {
		t.Parallel()
		l := NewCall(callEnv(localCalls(t)))
		require.NoError(t, l.Configure(props.New(map[string]string{"call": "user"})))

		vars := data.NewStore(nil)
		d, err := l.Execute(context.Background(), nil, nil, vars)
		require.NoError(t, err)
		assert.Equal(t, script.Continue, d)
		assert.Equal(t, "client.args_not_found", vars.GetOr("user.code", ""))
		assert.Equal(t, "id is required", vars.GetOr("user.reason", ""))
	})

	t.Run("remote failure with raise", func(t *testing.T) {
		t.Parallel()
		l := NewCall(callEnv(localCalls(t)))
		require.NoError(t, l.Configure(props.New(map[string]string{"call": "user", "raise": "true"})))

		d, err := l.Execute(context.Background(), nil, nil, data.NewStore(nil))
		require.ErrorIs(t, err, ErrCallFailed)
		assert.Equal(t, script.Exit, d)
		var re *call.RemoteError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "client.args_not_found", re.Code)
	})

	t.Run("unknown call", func(t *testing.T) {
		t.Parallel()
		l := NewCall(callEnv(localCalls(t)))
		require.NoError(t, l.Configure(props.New(map[string]string{"call": "nobody", "raise": "true"})))

		vars := data.NewStore(nil)
		_, err := l.Execute(context.Background(), nil, nil, vars)
		require.ErrorIs(t, err, call.ErrUnknownCall)
		assert.Equal(t, constants.CodeRemoteError, vars.GetOr("nobody.code", ""))
	})

	t.Run("configuration", func(t *testing.T) {
		t.Parallel()
		require.ErrorIs(t, NewCall(callEnv(localCalls(t))).Configure(props.New(nil)), ErrConfig)
		require.ErrorIs(t, NewCall(testEnv()).Configure(props.New(map[string]string{"call": "x"})), ErrNoCalls)
	})
}

// openerFunc adapts a function to script.CallOpener.
type openerFunc func(string) (call.Call, error)

func (f openerFunc) Open(name string) (call.Call, error) { return f(name) }

func TestCallAlwaysCloses(t *testing.T) {
	t.Parallel()

	m := mocks.NewCall()
	m.Invoker.On("Invoke", mock.Anything, mock.Anything).Return(nil, errors.New("wire cut")).Once()
	m.Invoker.On("Release").Return(nil).Once()
	require.NoError(t, m.Configure(props.New(map[string]string{"path": "/x"})))

	l := NewCall(callEnv(openerFunc(func(string) (call.Call, error) { return m, nil })))
	require.NoError(t, l.Configure(props.New(map[string]string{"call": "m", "path": "/p/${seg}"})))

	vars := data.NewStoreFrom(nil, map[string]string{"seg": "7"})
	d, err := l.Execute(context.Background(), nil, nil, vars)
	require.NoError(t, err)
	assert.Equal(t, script.Continue, d)
	assert.Equal(t, constants.CodeRemoteError, vars.GetOr("m.code", ""))
	assert.True(t, m.Closed())
	m.Invoker.AssertExpectations(t)

	req := m.Invoker.Calls[0].Arguments.Get(1).(*call.Request)
	assert.Equal(t, "/p/7", req.Path)
	assert.Equal(t, "1", req.Order)
}

func TestCallOrderUniqueAcrossScopedSegments(t *testing.T) {
	t.Parallel()

	def, err := script.ParseDefinition(props.FormatYAML, []byte(`
module: segment
children:
  - module: segment
    scope: true
    children:
      - module: call
        call: user
        id: first
        param.id: "1"
  - module: call
    call: user
    id: second
    param.id: "2"
`))
	require.NoError(t, err)
	s, err := script.NewBuilder(NewRegistry(), callEnv(localCalls(t))).Build(def)
	require.NoError(t, err)

	vars := data.NewStore(&data.RequestAttributes{SN: "sn-s", Order: "1"})
	require.NoError(t, s.Execute(context.Background(), nil, vars))

	assert.False(t, vars.Has("first.order"), "scoped results are discarded")
	assert.Equal(t, "1.2", vars.GetOr("second.order", ""))
	assert.Equal(t, "2", vars.GetOr(constants.CallOrder, ""))
}

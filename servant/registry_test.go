package servant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-logiclet/bizlog"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	echo := Func(func(*Context) error { return nil })

	require.NoError(t, r.Register("/echo", echo))
	require.ErrorIs(t, r.Register("/echo", echo), ErrDuplicatePath)
	require.ErrorIs(t, r.Register("", echo), ErrEmptyPath)
	require.ErrorIs(t, r.Register("/nil", nil), ErrNilServant)
	assert.Panics(t, func() { r.MustRegister("/echo", echo) })

	r.MustRegister("/abc", &Abstract{})
	assert.Equal(t, []string{"/abc", "/echo"}, r.Paths())

	_, ok := r.Lookup("/echo")
	assert.True(t, ok)
	_, ok = r.Lookup("/missing")
	assert.False(t, ok)
}

func TestReportServant(t *testing.T) {
	t.Parallel()

	t.Run("writes report", func(t *testing.T) {
		t.Parallel()
		logs := bizlog.NewMemoryLogger(4)
		logs.Log(bizlog.Record{Code: "core.ok"})

		d := NewDispatcher()
		sctx := NewContext(context.Background(), nil)
		d.Run(NewReportServant(logs), sctx)

		require.False(t, sctx.Failed())
		v, ok := sctx.Doc.Get("memory")
		require.True(t, ok)
		report, ok := v.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, int64(1), report["total"])
	})

	t.Run("no logger", func(t *testing.T) {
		t.Parallel()
		d := NewDispatcher()
		sctx := NewContext(context.Background(), nil)
		d.Run(NewReportServant(nil), sctx)
		assert.Equal(t, CodeNoLogger, sctx.Code)
	})
}

package options

import (
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/platform/script"
	"github.com/robbyt/go-logiclet/remote/call"
)

// MockLoader is a testify mock implementation of loader.Loader for testing
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) GetReader() (io.ReadCloser, error) {
	args := m.Called()
	reader, _ := args.Get(0).(io.ReadCloser)
	return reader, args.Error(1)
}

func (m *MockLoader) GetSourceURL() *url.URL {
	args := m.Called()
	u, _ := args.Get(0).(*url.URL)
	return u
}

func TestWithOptions(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	handler := helpers.NopHandler()
	registry := script.NewRegistry()
	calls := call.NewRegistry()
	globals := props.New(map[string]string{"env": "test"})
	l := new(MockLoader)

	for _, opt := range []Option{
		WithLogHandler(handler),
		WithRegistry(registry),
		WithCalls(calls),
		WithGlobals(globals),
		WithLoader(l),
		WithFormat(props.FormatTOML),
		WithID("demo"),
	} {
		require.NoError(t, opt(cfg))
	}

	assert.Equal(t, handler, cfg.GetHandler())
	assert.Same(t, registry, cfg.GetRegistry())
	assert.Equal(t, l, cfg.GetLoader())
	assert.Equal(t, props.FormatTOML, cfg.GetFormat())
	assert.Equal(t, "demo", cfg.GetID())

	env := cfg.Env()
	assert.Equal(t, handler, env.Handler)
	assert.Equal(t, calls, env.Calls)
	assert.Equal(t, globals, env.Globals)
	require.NoError(t, cfg.Validate())
}

func TestOptionErrors(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	require.ErrorIs(t, WithRegistry(nil)(cfg), ErrNoRegistry)
	require.ErrorIs(t, WithFormat("ini")(cfg), props.ErrFormatUnknown)

	require.NoError(t, WithLogHandler(nil)(cfg))
	assert.Nil(t, cfg.handler, "nil handler is ignored")
	require.NoError(t, WithLoader(nil)(cfg))
	assert.Nil(t, cfg.loader, "nil loader is ignored")
}

func TestConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{name: "missing loader", cfg: &Config{format: props.FormatYAML, registry: script.NewRegistry()}, wantErr: ErrNoLoader},
		{name: "missing format", cfg: &Config{loader: new(MockLoader), registry: script.NewRegistry()}, wantErr: ErrNoFormat},
		{name: "missing registry", cfg: &Config{loader: new(MockLoader), format: props.FormatYAML}, wantErr: ErrNoRegistry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, tt.cfg.Validate(), tt.wantErr)
		})
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.NotNil(t, cfg.GetHandler())
	assert.Equal(t, props.FormatYAML, cfg.GetFormat())
	assert.Contains(t, cfg.GetRegistry().Modules(), "set")
	assert.Contains(t, cfg.GetRegistry().Modules(), "eval")

	empty := &Config{}
	require.NoError(t, WithDefaults()(empty))
	assert.IsType(t, &slog.TextHandler{}, empty.GetHandler())
	assert.NotNil(t, empty.GetRegistry())
	assert.Equal(t, props.FormatYAML, empty.GetFormat())
}

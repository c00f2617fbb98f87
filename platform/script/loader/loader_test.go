package loader

import (
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-logiclet/internal/helpers"
)

type failingLoader struct{}

func (failingLoader) GetReader() (io.ReadCloser, error) { return nil, errors.New("boom") }
func (failingLoader) GetSourceURL() *url.URL           { return nil }

func TestNewInline(t *testing.T) {
	t.Parallel()

	t.Run("named", func(t *testing.T) {
		src := []byte("  module: segment\n")
		l, err := NewInline("dir/greet.yaml", src)
		require.NoError(t, err)
		src[2] = 'X'

		b, err := ReadAll(l)
		require.NoError(t, err)
		assert.Equal(t, "module: segment", string(b))
		assert.Equal(t, "greet.yaml", l.Name())
		assert.Equal(t, "inline:///greet.yaml", l.GetSourceURL().String())
		assert.Equal(t, "loader.Inline{Name: greet.yaml, Bytes: 15}", l.String())
	})

	t.Run("unnamed definitions are named by content", func(t *testing.T) {
		a, err := NewFromString("module: set\nid: x")
		require.NoError(t, err)
		b, err := NewFromString("\tmodule: set\nid: x  ")
		require.NoError(t, err)
		assert.Equal(t, helpers.ShortID([]byte("module: set\nid: x")), a.Name())
		assert.Equal(t, a.GetSourceURL().String(), b.GetSourceURL().String())
	})

	t.Run("empty content", func(t *testing.T) {
		for _, content := range []string{"", "   ", "\n\t"} {
			_, err := NewFromString(content)
			require.ErrorIs(t, err, ErrInputEmpty)
		}
		_, err := NewInline("x.yaml", nil)
		require.ErrorIs(t, err, ErrInputEmpty)
	})
}

func TestNewFromDisk(t *testing.T) {
	t.Parallel()

	t.Run("valid paths", func(t *testing.T) {
		absPath := filepath.Join(t.TempDir(), "script.yaml")
		require.NoError(t, os.WriteFile(absPath, []byte("module: set\nid: a\n"), 0o600))

		for _, path := range []string{absPath, "file://" + absPath} {
			l, err := NewFromDisk(path)
			require.NoError(t, err)
			assert.Equal(t, absPath, l.Path())
			assert.Equal(t, "file", l.GetSourceURL().Scheme)

			b, err := ReadAll(l)
			require.NoError(t, err)
			assert.Contains(t, string(b), "module: set")
		}
	})

	t.Run("invalid schemes", func(t *testing.T) {
		for _, path := range []string{"http://example.com/s.yaml", "https://example.com/s.yaml"} {
			_, err := NewFromDisk(path)
			require.ErrorIs(t, err, ErrSchemeUnsupported)
		}
	})

	t.Run("relative paths", func(t *testing.T) {
		for _, path := range []string{"s.yaml", "./s.yaml", "../s.yaml"} {
			_, err := NewFromDisk(path)
			require.ErrorIs(t, err, ErrScriptNotAvailable)
		}
	})

	t.Run("root path", func(t *testing.T) {
		_, err := NewFromDisk("/")
		require.ErrorIs(t, err, ErrScriptNotAvailable)
	})

	t.Run("missing file", func(t *testing.T) {
		l, err := NewFromDisk(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		_, err = ReadAll(l)
		require.Error(t, err)
	})
}

func TestReadAll(t *testing.T) {
	t.Parallel()

	_, err := ReadAll(nil)
	require.ErrorIs(t, err, ErrInputEmpty)

	_, err = ReadAll(failingLoader{})
	require.EqualError(t, err, "boom")
}

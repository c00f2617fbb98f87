package data

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robbyt/go-logiclet/platform/constants"
)

func TestNewRequestAttributes(t *testing.T) {
	t.Parallel()

	t.Run("captures request fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/svc/echo?name=alice&n=1&n=2", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set(constants.HeaderSerial, "sn-1")
		req.Header.Set(constants.HeaderSerialOrder, "1.2")

		attrs := NewRequestAttributes(req)

		tests := []struct {
			name     string
			expected string
		}{
			{constants.ClientIP, "10.0.0.1"},
			{constants.ClientIPReal, "10.0.0.1"},
			{constants.SN, "sn-1"},
			{constants.Order, "1.2"},
			{constants.Host, "example.com"},
			{constants.Method, http.MethodPost},
			{constants.Query, "name=alice&n=1&n=2"},
			{constants.URI, "/svc/echo?name=alice&n=1&n=2"},
			{constants.Path, "/svc/echo"},
			{"name", "alice"},
			{"n", "1"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				v, ok := attrs.Get(tt.name)
				require.True(t, ok)
				assert.Equal(t, tt.expected, v)
			})
		}
	})

	t.Run("real client ip from proxy headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set(constants.HeaderForwarded, " 192.168.1.9 , 10.0.0.1")
		attrs := NewRequestAttributes(req)
		assert.Equal(t, "192.168.1.9", attrs.ClientIPReal)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constants.HeaderRealIP, "172.16.0.3")
		attrs = NewRequestAttributes(req)
		assert.Equal(t, "172.16.0.3", attrs.ClientIPReal)
	})

	t.Run("serial is generated when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		a := NewRequestAttributes(req)
		b := NewRequestAttributes(req)
		assert.NotEmpty(t, a.SN)
		assert.NotEqual(t, a.SN, b.SN)
	})

	t.Run("nil request", func(t *testing.T) {
		attrs := NewRequestAttributes(nil)
		assert.NotEmpty(t, attrs.SN)
		_, ok := attrs.Get("anything")
		assert.False(t, ok)
	})

	t.Run("unknown reserved name", func(t *testing.T) {
		attrs := NewRequestAttributes(httptest.NewRequest(http.MethodGet, "/?$custom=1", nil))
		_, ok := attrs.Get("$custom")
		assert.False(t, ok)
	})

	t.Run("nil receiver", func(t *testing.T) {
		var attrs *RequestAttributes
		_, ok := attrs.Get(constants.SN)
		assert.False(t, ok)
	})
}

func TestStoreOnRequestRoot(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/hello?name=bob", nil)
	req.RemoteAddr = "127.0.0.1:1"
	vars := NewStore(NewRequestAttributes(req))

	assert.Equal(t, "/hello", vars.GetOr(constants.Path, ""))
	assert.Equal(t, "bob", vars.GetOr("name", ""))
	assert.Equal(t, "from 127.0.0.1 to /hello", vars.Transform("from ${$clientIp} to ${$path}"))

	vars.Set("name", "carol")
	assert.Equal(t, "carol", vars.GetOr("name", ""))
	assert.Equal(t, 1, vars.Len())
}

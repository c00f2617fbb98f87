// Package httpauth applies credentials to requests that fetch script
// definitions over HTTP.
package httpauth

import (
	"context"
	"maps"
	"net/http"
)

// Authenticator applies credentials to a request in place.
type Authenticator interface {
	Authenticate(req *http.Request) error
	// AuthenticateWithContext fails without touching req when ctx is done.
	AuthenticateWithContext(ctx context.Context, req *http.Request) error
	Name() string
}

func withContext(ctx context.Context, req *http.Request, fn func(*http.Request) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(req)
}

// NoAuth sends requests as they are.
type NoAuth struct{}

func NewNoAuth() *NoAuth { return &NoAuth{} }

func (n *NoAuth) Authenticate(*http.Request) error { return nil }

func (n *NoAuth) AuthenticateWithContext(ctx context.Context, req *http.Request) error {
	return withContext(ctx, req, n.Authenticate)
}

func (n *NoAuth) Name() string { return "None" }

// BasicAuth sets RFC 7617 credentials. An empty username sends nothing.
type BasicAuth struct {
	Username string
	Password string
}

func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{Username: username, Password: password}
}

func (b *BasicAuth) Authenticate(req *http.Request) error {
	if b.Username != "" {
		req.SetBasicAuth(b.Username, b.Password)
	}
	return nil
}

func (b *BasicAuth) AuthenticateWithContext(ctx context.Context, req *http.Request) error {
	return withContext(ctx, req, b.Authenticate)
}

func (b *BasicAuth) Name() string { return "Basic" }

// HeaderAuth sets arbitrary headers, such as API keys.
type HeaderAuth struct {
	Headers map[string]string
}

func NewHeaderAuth(headers map[string]string) *HeaderAuth {
	return &HeaderAuth{Headers: maps.Clone(headers)}
}

// NewBearerAuth sends token as a bearer credential.
func NewBearerAuth(token string) *HeaderAuth {
	return &HeaderAuth{Headers: map[string]string{"Authorization": "Bearer " + token}}
}

func (h *HeaderAuth) Authenticate(req *http.Request) error {
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	return nil
}

func (h *HeaderAuth) AuthenticateWithContext(ctx context.Context, req *http.Request) error {
	return withContext(ctx, req, h.Authenticate)
}

func (h *HeaderAuth) Name() string { return "Header" }

// Package options configures how a script is loaded and built.
package options

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/platform/script"
	"github.com/robbyt/go-logiclet/platform/script/loader"
)

var (
	ErrNoLoader   = errors.New("no loader specified")
	ErrNoFormat   = errors.New("no definition format specified")
	ErrNoRegistry = errors.New("no logiclet registry specified")
)

// Config holds everything needed to turn a definition into a script.
type Config struct {
	handler  slog.Handler
	registry *script.Registry
	calls    script.CallOpener
	globals  props.Properties
	loader   loader.Loader
	format   props.Format
	id       string
}

// Option is a function that modifies Config.
type Option func(*Config) error

// WithLogHandler sets the log handler for the builder and every logiclet.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler != nil {
			c.handler = handler
		}
		return nil
	}
}

// WithRegistry replaces the set of known modules.
func WithRegistry(r *script.Registry) Option {
	return func(c *Config) error {
		if r == nil {
			return ErrNoRegistry
		}
		c.registry = r
		return nil
	}
}

// WithCalls sets the provider the call operation opens remote calls from.
func WithCalls(calls script.CallOpener) Option {
	return func(c *Config) error {
		c.calls = calls
		return nil
	}
}

// WithGlobals sets properties every logiclet inherits.
func WithGlobals(globals props.Properties) Option {
	return func(c *Config) error {
		c.globals = globals
		return nil
	}
}

// WithLoader sets the definition source.
func WithLoader(l loader.Loader) Option {
	return func(c *Config) error {
		if l != nil {
			c.loader = l
		}
		return nil
	}
}

// WithFormat sets the definition syntax.
func WithFormat(f props.Format) Option {
	return func(c *Config) error {
		switch f {
		case props.FormatYAML, props.FormatTOML:
			c.format = f
			return nil
		}
		return fmt.Errorf("%w: %q", props.ErrFormatUnknown, f)
	}
}

// WithID names the script. By default the id is derived from the content.
func WithID(id string) Option {
	return func(c *Config) error {
		c.id = id
		return nil
	}
}

// Validate performs basic validation on the configuration.
func (c *Config) Validate() error {
	if c.loader == nil {
		return ErrNoLoader
	}
	if c.format == "" {
		return ErrNoFormat
	}
	if c.registry == nil {
		return ErrNoRegistry
	}
	return nil
}

// GetHandler returns the configured log handler.
func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

// GetRegistry returns the module registry.
func (c *Config) GetRegistry() *script.Registry {
	return c.registry
}

// GetLoader returns the configured loader.
func (c *Config) GetLoader() loader.Loader {
	return c.loader
}

// GetFormat returns the definition syntax.
func (c *Config) GetFormat() props.Format {
	return c.format
}

// GetID returns the requested script id, possibly empty.
func (c *Config) GetID() string {
	return c.id
}

// Env returns the build environment handed to logiclet factories.
func (c *Config) Env() *script.Env {
	return &script.Env{
		Handler: c.handler,
		Calls:   c.calls,
		Globals: c.globals,
	}
}

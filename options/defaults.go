package options

import (
	"log/slog"
	"os"

	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/plugins"
)

// DefaultConfig initializes a Config with every built-in module, YAML
// definitions and the default log handler.
func DefaultConfig() *Config {
	return &Config{
		handler:  DefaultHandler(),
		registry: plugins.NewRegistry(),
		format:   props.FormatYAML,
	}
}

// DefaultHandler returns the default logging handler.
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stdout, nil)
}

// WithDefaults fills in anything still unset.
func WithDefaults() Option {
	return func(c *Config) error {
		if c.handler == nil {
			c.handler = DefaultHandler()
		}
		if c.registry == nil {
			c.registry = plugins.NewRegistry()
		}
		if c.format == "" {
			c.format = props.FormatYAML
		}
		return nil
	}
}

package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger creates a logger for a runtime component.
// If the provided handler is nil, it creates a default text handler grouped under
// the component name.
//
// Parameters:
//   - handler: The slog.Handler to use, or nil for defaults
//   - component: The name of the owning package (e.g., "script", "servant")
//   - groupName: Optional additional group name within the component
//
// Returns:
//   - The configured handler
//   - A logger created from the handler
func SetupLogger(handler slog.Handler, component string, groupName string) (slog.Handler, *slog.Logger) {
	if handler == nil {
		defaultHandler := slog.NewTextHandler(os.Stdout, nil)
		handler = defaultHandler.WithGroup(component)
		defaultLogger := slog.New(handler)
		defaultLogger.Warn("Handler is nil, using the default logger configuration.")
	}

	var logger *slog.Logger
	if groupName != "" {
		logger = slog.New(handler.WithGroup(groupName))
	} else {
		logger = slog.New(handler)
	}

	return handler, logger
}

// NopHandler returns a handler that discards every record.
func NopHandler() slog.Handler {
	return slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.Level(100)})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

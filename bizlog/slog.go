package bizlog

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/robbyt/go-logiclet/internal/helpers"
)

const slogType = "slog"

// SlogLogger writes each record as a structured log line.
type SlogLogger struct {
	logger *slog.Logger
	total  atomic.Int64
}

// NewSlogLogger creates a logger writing through handler.
func NewSlogLogger(handler slog.Handler) *SlogLogger {
	_, logger := helpers.SetupLogger(handler, "bizlog", "")
	return &SlogLogger{logger: logger}
}

func (s *SlogLogger) Log(r Record) {
	s.total.Add(1)
	level := slog.LevelInfo
	if r.Code != "" && r.Code != "core.ok" {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(context.Background(), level, "request served",
		slog.String("sn", r.SN),
		slog.String("service", r.Service),
		slog.String("client", r.Client),
		slog.String("code", r.Code),
		slog.String("reason", r.Reason),
		slog.Time("start", r.Start),
		slog.Duration("duration", r.Duration),
	)
}

func (s *SlogLogger) HandlerType() string {
	return slogType
}

func (s *SlogLogger) Report(sink map[string]any) {
	sink["type"] = slogType
	sink["total"] = s.total.Load()
}

// Multi fans records out to several loggers.
type Multi []Logger

func (m Multi) Log(r Record) {
	for _, l := range m {
		l.Log(r)
	}
}

func (m Multi) HandlerType() string {
	return "multi"
}

func (m Multi) Report(sink map[string]any) {
	for _, l := range m {
		sub := make(map[string]any)
		l.Report(sub)
		sink[l.HandlerType()] = sub
	}
}

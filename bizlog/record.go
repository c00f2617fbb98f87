// Package bizlog records one business log entry per served request and
// summarizes them for diagnostics.
package bizlog

import (
	"fmt"
	"time"
)

// Record is one served request.
type Record struct {
	SN       string
	Service  string
	Client   string
	Code     string
	Reason   string
	Start    time.Time
	Duration time.Duration
}

func (r Record) String() string {
	return fmt.Sprintf("%s %s %s %s (%s)", r.SN, r.Service, r.Client, r.Code, r.Duration)
}

// Logger accepts business log records.
type Logger interface {
	Log(r Record)
	// HandlerType names the logger in reports.
	HandlerType() string
	// Report writes a summary of what has been logged into sink.
	Report(sink map[string]any)
}

package plugins

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/platform/script"
)

// ModuleLog is the module name of Log.
const ModuleLog = "log"

// Log writes the expanded "msg" template at "level" (debug, info, warn or
// error) with the request serial attached.
type Log struct {
	logger *slog.Logger
	msg    string
	level  slog.Level
}

// NewLog is the Factory for ModuleLog.
func NewLog(env *script.Env) script.Logiclet {
	var h slog.Handler
	if env != nil {
		h = env.Handler
	}
	_, logger := helpers.SetupLogger(h, "plugins", "log")
	return &Log{logger: logger}
}

func (l *Log) Configure(p props.Properties) error {
	l.msg = p.GetRaw("msg", "")
	level := p.GetString("level", "info")
	switch strings.ToLower(level) {
	case "debug":
		l.level = slog.LevelDebug
	case "info":
		l.level = slog.LevelInfo
	case "warn", "warning":
		l.level = slog.LevelWarn
	case "error":
		l.level = slog.LevelError
	default:
		return fmt.Errorf("%w: unknown level %q", ErrConfig, level)
	}
	return nil
}

func (l *Log) Execute(ctx context.Context, _, current doc.Object, vars *data.Store) (script.Directive, error) {
	r := script.Resolver(current, vars)
	l.logger.Log(ctx, l.level, data.Transform(r, l.msg), "sn", data.GetOr(r, constants.SN, ""))
	return script.Continue, nil
}

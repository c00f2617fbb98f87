package plugins

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/constants"
	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/platform/script"
	"github.com/robbyt/go-logiclet/remote/call"
)

// ModuleCall is the module name of Call.
const ModuleCall = "call"

// Call executes a named remote call and publishes the outcome.
//
// Properties:
//   - call: name of the call to open (required)
//   - id: variable prefix for the outcome, defaults to the call name
//   - path: template overriding the call's configured target
//   - tag: when set, the payload is written into the current node under it
//   - raise: when true a failed call aborts the script with an error
//   - param.<name>: templates for the call parameters
//
// After execution the variables <id>.code, <id>.reason, <id>.host and
// <id>.duration are set, plus <id>.<key> for every scalar payload field.
type Call struct {
	calls  script.CallOpener
	logger *slog.Logger

	name   string
	id     string
	path   string
	tag    string
	raise  bool
	params map[string]string
	keys   []string
}

// NewCall is the Factory for ModuleCall.
func NewCall(env *script.Env) script.Logiclet {
	c := &Call{}
	var h slog.Handler
	if env != nil {
		h = env.Handler
		c.calls = env.Calls
	}
	_, c.logger = helpers.SetupLogger(h, "plugins", "call")
	return c
}

func (c *Call) Configure(p props.Properties) error {
	c.name = p.GetString("call", "")
	if c.name == "" {
		return fmt.Errorf("%w: call name is required", ErrConfig)
	}
	if c.calls == nil {
		return fmt.Errorf("%s: %w", c.name, ErrNoCalls)
	}
	c.id = p.GetString("id", c.name)
	c.path = p.GetRaw("path", "")
	c.tag = p.GetString("tag", "")
	c.raise = p.GetBool("raise", false)
	c.params = p.Sub("param")
	c.keys = slices.Sorted(maps.Keys(c.params))
	return nil
}

func (c *Call) Execute(ctx context.Context, _, current doc.Object, vars *data.Store) (script.Directive, error) {
	if vars == nil {
		return script.Exit, script.ErrNoVariables
	}
	r := script.Resolver(current, vars)

	rc, err := c.calls.Open(c.name)
	if err != nil {
		c.publish(vars, call.Failed(constants.CodeRemoteError, err.Error()))
		if c.raise {
			return script.Exit, fmt.Errorf("%w: %s: %w", ErrCallFailed, c.name, err)
		}
		return script.Continue, nil
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			c.logger.Warn("close failed", "call", c.name, "error", cerr)
		}
	}()

	paras := rc.NewParameters()
	for _, k := range c.keys {
		paras.Set(k, data.Transform(r, c.params[k]))
	}
	sn := vars.GetOr(constants.SN, "")
	order := call.NextOrder(vars)

	res, err := rc.ExecutePathSN(ctx, data.Transform(r, c.path), paras, sn, order)
	c.publish(vars, res)
	if c.tag != "" && current != nil && res.Payload != nil {
		current.Set(c.tag, res.Payload)
	}

	logger := c.logger.With("call", c.name, "sn", sn, "order", order, "code", res.Code)
	if err != nil {
		logger.Warn("call failed", "error", err)
		if c.raise {
			return script.Exit, fmt.Errorf("%w: %s: %w", ErrCallFailed, c.name, err)
		}
		return script.Continue, nil
	}
	if !res.OK() && c.raise {
		return script.Exit, fmt.Errorf("%w: %s: %w", ErrCallFailed, c.name, res.Err())
	}
	logger.Debug("call completed", "duration", res.Duration)
	return script.Continue, nil
}

func (c *Call) publish(vars *data.Store, res *call.Result) {
	for k, v := range res.Payload {
		if s, err := props.Scalar(v); err == nil {
			vars.Set(c.id+"."+k, s)
		}
	}
	vars.Set(c.id+".code", res.Code)
	vars.Set(c.id+".reason", res.Reason)
	vars.Set(c.id+".host", res.Host)
	vars.Set(c.id+".duration", strconv.FormatInt(res.Duration.Milliseconds(), 10))
}

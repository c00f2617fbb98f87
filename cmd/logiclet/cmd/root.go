// Package cmd holds the logiclet command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-logiclet"
	"github.com/robbyt/go-logiclet/options"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/platform/script"
	"github.com/robbyt/go-logiclet/platform/script/loader/httpauth"
	"github.com/robbyt/go-logiclet/remote/call"
	"github.com/robbyt/go-logiclet/remote/call/localcall"
)

type rootOptions struct {
	verbose bool
	calls   string
	token   string
	logOut  io.Writer
}

// handler logs to stderr, or to logOut when set.
func (o *rootOptions) handler() slog.Handler {
	out := o.logOut
	if out == nil {
		out = os.Stderr
	}
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
}

// callRegistry knows every transport and the calls defined in the --calls
// file, laid out as one table per call name.
func (o *rootOptions) callRegistry(handler slog.Handler, router *localcall.Router) (*call.Registry, error) {
	r := logiclet.NewCallRegistry(handler, router)
	if o.calls == "" {
		return r, nil
	}

	format, err := props.FormatFromPath(o.calls)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(filepath.Clean(o.calls))
	if err != nil {
		return nil, fmt.Errorf("read calls: %w", err)
	}
	defs, err := props.Parse(format, content)
	if err != nil {
		return nil, fmt.Errorf("parse calls %s: %w", o.calls, err)
	}
	if err := r.DefineAll(defs); err != nil {
		return nil, err
	}
	return r, nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:   "logiclet",
		Short: "Run operation scripts and serve them as servants",
		Long: `logiclet executes operation scripts written in YAML or TOML.

Commands:
  run    - execute one script against variables given on the command line
  serve  - serve scripts over HTTP, WebSocket and Redis`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&o.calls, "calls", "", "call definitions (.yaml or .toml)")
	root.PersistentFlags().StringVar(&o.token, "token", "", "bearer token for scripts fetched over HTTP")

	root.AddCommand(newRunCmd(o), newServeCmd(o))
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// loadScript builds the script at location, a file path or an http(s) URL.
func (o *rootOptions) loadScript(location string, opts ...options.Option) (*script.Script, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		var auth httpauth.Authenticator
		if o.token != "" {
			auth = httpauth.NewBearerAuth(o.token)
		}
		return logiclet.FromURL(location, auth, opts...)
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", location, err)
	}
	return logiclet.FromFile(abs, opts...)
}

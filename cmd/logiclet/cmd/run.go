package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-logiclet/options"
	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
	"github.com/robbyt/go-logiclet/remote/call"
)

type runOptions struct {
	vars  map[string]string
	sn    string
	order string
}

// runOutput is what run prints.
type runOutput struct {
	Script string            `json:"script"`
	SN     string            `json:"sn"`
	Vars   map[string]string `json:"vars"`
	Doc    doc.MapObject     `json:"doc"`
}

func newRunCmd(o *rootOptions) *cobra.Command {
	ro := &runOptions{}
	c := &cobra.Command{
		Use:   "run <script file or url>",
		Short: "Execute a script once and print its variables and document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, o, ro, args[0])
		},
	}
	c.Flags().StringToStringVar(&ro.vars, "var", nil, "request parameter name=value, repeatable")
	c.Flags().StringVar(&ro.sn, "sn", "", "global serial number (generated when empty)")
	c.Flags().StringVar(&ro.order, "order", "", "call order of the request")
	return c
}

func runScript(cmd *cobra.Command, o *rootOptions, ro *runOptions, path string) error {
	handler := o.handler()
	calls, err := o.callRegistry(handler, nil)
	if err != nil {
		return err
	}
	s, err := o.loadScript(path, options.WithLogHandler(handler), options.WithCalls(calls))
	if err != nil {
		return err
	}

	attrs := &data.RequestAttributes{
		SN:     ro.sn,
		Order:  ro.order,
		Method: "RUN",
		Path:   path,
		URI:    path,
		Params: ro.vars,
	}
	if attrs.SN == "" {
		attrs.SN = call.NewSerial()
	}
	if attrs.Params == nil {
		attrs.Params = make(map[string]string)
	}
	vars := data.NewStore(attrs)
	root := doc.NewMapObject()

	if err := s.Execute(cmd.Context(), root, vars); err != nil {
		return fmt.Errorf("execute %s: %w", s.ID(), err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(runOutput{
		Script: s.ID(),
		SN:     attrs.SN,
		Vars:   vars.Snapshot(),
		Doc:    root,
	})
}

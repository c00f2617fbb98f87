// Package logiclet builds operation scripts from YAML or TOML definitions and
// serves them as servants.
//
// A script is built once and executed any number of times, each time against
// its own variable store:
//
//	s, err := logiclet.FromYAML(definition)
//	vars := data.NewStore(data.NewRequestAttributes(r))
//	err = s.Execute(ctx, doc.NewMapObject(), vars)
package logiclet

import (
	"fmt"
	"path"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/options"
	"github.com/robbyt/go-logiclet/platform/props"
	"github.com/robbyt/go-logiclet/platform/script"
	"github.com/robbyt/go-logiclet/platform/script/loader"
	"github.com/robbyt/go-logiclet/platform/script/loader/httpauth"
)

// New builds a script from the configured loader.
func New(opts ...options.Option) (*script.Script, error) {
	cfg := options.DefaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if err := options.WithDefaults()(cfg); err != nil {
		return nil, fmt.Errorf("error applying defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return build(cfg)
}

func build(cfg *options.Config) (*script.Script, error) {
	content, err := loader.ReadAll(cfg.GetLoader())
	if err != nil {
		return nil, err
	}
	def, err := script.ParseDefinition(cfg.GetFormat(), content)
	if err != nil {
		return nil, err
	}

	id := cfg.GetID()
	if id == "" {
		id = helpers.ShortID(content)
		if u := cfg.GetLoader().GetSourceURL(); u != nil && namedSource(u.Scheme) {
			id = path.Base(u.Path) + "#" + id
		}
	}
	return script.NewBuilder(cfg.GetRegistry(), cfg.Env()).BuildWithID(id, def)
}

func namedSource(scheme string) bool {
	switch scheme {
	case "file", "http", "https":
		return true
	}
	return false
}

// FromYAML builds a script from a YAML definition.
func FromYAML(content string, opts ...options.Option) (*script.Script, error) {
	return fromString(content, props.FormatYAML, opts)
}

// FromTOML builds a script from a TOML definition.
func FromTOML(content string, opts ...options.Option) (*script.Script, error) {
	return fromString(content, props.FormatTOML, opts)
}

func fromString(content string, format props.Format, opts []options.Option) (*script.Script, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	all := append([]options.Option{options.WithLoader(l), options.WithFormat(format)}, opts...)
	return New(all...)
}

// FromFile builds a script from an absolute path. The format follows the
// file extension.
func FromFile(filePath string, opts ...options.Option) (*script.Script, error) {
	format, err := props.FormatFromPath(filePath)
	if err != nil {
		return nil, err
	}
	l, err := loader.NewFromDisk(filePath)
	if err != nil {
		return nil, err
	}
	all := append([]options.Option{options.WithLoader(l), options.WithFormat(format)}, opts...)
	return New(all...)
}

// FromURL fetches a definition over HTTP(S). The format follows the extension
// of the URL path. A nil auth sends no credentials.
func FromURL(rawURL string, auth httpauth.Authenticator, opts ...options.Option) (*script.Script, error) {
	httpOpts := loader.DefaultHTTPOptions()
	if auth != nil {
		httpOpts.Auth = auth
	}
	l, err := loader.NewFromHTTPWithOptions(rawURL, httpOpts)
	if err != nil {
		return nil, err
	}
	format, err := props.FormatFromPath(l.GetSourceURL().Path)
	if err != nil {
		return nil, err
	}
	all := append([]options.Option{options.WithLoader(l), options.WithFormat(format)}, opts...)
	return New(all...)
}

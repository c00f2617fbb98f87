package script

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/props"
)

// Builder turns definitions into configured scripts.
type Builder struct {
	registry *Registry
	env      *Env

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewBuilder creates a Builder that resolves modules through registry and
// passes env to every factory.
func NewBuilder(registry *Registry, env *Env) *Builder {
	// Defaults go on a copy; the caller may share env between builders.
	e := Env{}
	if env != nil {
		e = *env
	}
	handler, logger := helpers.SetupLogger(e.Handler, "script", "Builder")
	if e.Handler == nil {
		e.Handler = handler
	}
	env = &e

	return &Builder{
		registry:   registry,
		env:        env,
		logHandler: handler,
		logger:     logger,
	}
}

func (b *Builder) String() string {
	return fmt.Sprintf("script.Builder{Modules: %d}", len(b.registry.Modules()))
}

// Build configures the whole definition tree. Configuration problems in
// sibling subtrees are collected and returned together.
func (b *Builder) Build(def Definition) (*Script, error) {
	root, err := b.build(def, def.Module)
	if err != nil {
		b.logger.Warn("script build failed", "error", err)
		return nil, err
	}
	return newScript(b.logHandler, "", root), nil
}

// BuildWithID is Build with a caller supplied script ID.
func (b *Builder) BuildWithID(id string, def Definition) (*Script, error) {
	s, err := b.Build(def)
	if err != nil {
		return nil, err
	}
	s.id = id
	return s, nil
}

func (b *Builder) build(def Definition, path string) (Logiclet, error) {
	if def.Module == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyModule)
	}

	factory, ok := b.registry.Lookup(def.Module)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", path, ErrUnknownModule, def.Module)
	}

	l := factory(b.env)
	if l == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNilFactory)
	}

	p := props.WithParent(b.env.Globals, def.Props)
	if err := l.Configure(p); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrConfigure, err)
	}

	if len(def.Children) == 0 {
		return l, nil
	}

	container, ok := l.(Container)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotContainer)
	}

	var errz []error
	for i, childDef := range def.Children {
		child, err := b.build(childDef, fmt.Sprintf("%s/%d:%s", path, i, childDef.Module))
		if err != nil {
			errz = append(errz, err)
			continue
		}
		container.AddChild(child)
	}
	if len(errz) > 0 {
		return nil, errors.Join(errz...)
	}

	b.logger.Debug("container built", "path", path, "children", len(def.Children))
	return l, nil
}

package script

import (
	"context"

	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
	"github.com/robbyt/go-logiclet/platform/props"
)

// ModuleSegment is the module name of the built-in composite.
const ModuleSegment = "segment"

// Segment runs its children in declaration order against the same document
// and variables. A Break from a child ends the segment, an Exit is passed up.
type Segment struct {
	children []Logiclet
	scoped   bool
}

// NewSegment is the Factory for ModuleSegment.
func NewSegment(_ *Env) Logiclet {
	return &Segment{}
}

// Configure reads "scope": when true the children run in a child variable
// scope that is discarded when the segment returns.
func (s *Segment) Configure(p props.Properties) error {
	s.scoped = p.GetBool("scope", false)
	return nil
}

// AddChild implements Container.
func (s *Segment) AddChild(child Logiclet) {
	if child != nil {
		s.children = append(s.children, child)
	}
}

// Len returns the number of children.
func (s *Segment) Len() int {
	return len(s.children)
}

// Execute implements Logiclet.
func (s *Segment) Execute(ctx context.Context, root, current doc.Object, vars *data.Store) (Directive, error) {
	if vars == nil {
		return Exit, ErrNoVariables
	}
	scope := vars
	if s.scoped {
		scope = vars.NewChild()
	}

	for _, child := range s.children {
		if err := ctx.Err(); err != nil {
			return Exit, err
		}

		d, err := child.Execute(ctx, root, current, scope)
		if err != nil {
			return Exit, err
		}
		switch d {
		case Break:
			return Continue, nil
		case Exit:
			return Exit, nil
		}
	}
	return Continue, nil
}

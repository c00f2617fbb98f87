package script

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-logiclet/internal/helpers"
	"github.com/robbyt/go-logiclet/platform/data"
	"github.com/robbyt/go-logiclet/platform/doc"
)

// Script is a configured logiclet tree. It holds no per-execution state and
// may be executed concurrently, each execution with its own variable store.
type Script struct {
	id        string
	root      Logiclet
	createdAt time.Time

	logger *slog.Logger
}

func newScript(handler slog.Handler, id string, root Logiclet) *Script {
	_, logger := helpers.SetupLogger(handler, "script", "Script")
	return &Script{
		id:        id,
		root:      root,
		createdAt: time.Now(),
		logger:    logger,
	}
}

func (s *Script) String() string {
	return fmt.Sprintf("script.Script{ID: %s, CreatedAt: %s}", s.id, s.createdAt)
}

// ID returns the identifier of the script, usually a checksum of its source.
func (s *Script) ID() string {
	return s.id
}

// CreatedAt returns when the script was configured.
func (s *Script) CreatedAt() time.Time {
	return s.createdAt
}

// Root returns the top logiclet.
func (s *Script) Root() Logiclet {
	return s.root
}

// Execute runs the script. The document root doubles as the current node.
// Break and Exit directives are absorbed here; only errors are reported.
func (s *Script) Execute(ctx context.Context, root doc.Object, vars *data.Store) error {
	if vars == nil {
		return ErrNoVariables
	}
	if root == nil {
		root = doc.NewMapObject()
	}

	logger := s.logger.With("scriptID", s.id)
	start := time.Now()

	d, err := s.root.Execute(ctx, root, root, vars)
	if err != nil {
		logger.WarnContext(ctx, "script execution failed", "error", err, "elapsed", time.Since(start))
		return err
	}

	logger.DebugContext(ctx, "script executed", "directive", d, "elapsed", time.Since(start))
	return nil
}

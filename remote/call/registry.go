package call

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/robbyt/go-logiclet/platform/props"
)

// Factory creates an unconfigured Call of one transport module.
type Factory func() Call

// Registry knows the transport modules and the named call definitions.
// Open hands out a fresh call per use; calls are never shared.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Factory
	defs    map[string]props.Properties
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Factory),
		defs:    make(map[string]props.Properties),
	}
}

// RegisterModule adds a transport factory.
func (r *Registry) RegisterModule(module string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.modules[module]; ok {
		return fmt.Errorf("module %s %w", module, ErrDuplicate)
	}
	r.modules[module] = f
	return nil
}

// Define adds a named call. p must carry the "module" of the transport.
func (r *Registry) Define(name string, p props.Properties) error {
	module := p.GetRaw("module", "")

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.modules[module]; !ok {
		return fmt.Errorf("%s: %w: %q", name, ErrUnknownModule, module)
	}
	if _, ok := r.defs[name]; ok {
		return fmt.Errorf("call %s %w", name, ErrDuplicate)
	}
	r.defs[name] = p
	return nil
}

// DefineAll adds every call found in a flat source laid out as
// "<name>.module", "<name>.url", ...
func (r *Registry) DefineAll(src props.Properties) error {
	names := make(map[string]struct{})
	for _, key := range src.Names() {
		if name, _, ok := strings.Cut(key, "."); ok {
			names[name] = struct{}{}
		}
	}
	for _, name := range slices.Sorted(maps.Keys(names)) {
		if err := r.Define(name, props.New(src.Sub(name))); err != nil {
			return err
		}
	}
	return nil
}

// Open creates and configures a new call for name.
func (r *Registry) Open(name string) (Call, error) {
	r.mu.RLock()
	def, ok := r.defs[name]
	var factory Factory
	if ok {
		factory = r.modules[def.GetRaw("module", "")]
	}
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCall, name)
	}

	c := factory()
	if err := c.Configure(def); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("configure call %s: %w", name, err)
	}
	return c, nil
}

// Names lists the defined calls.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.defs))
}

// Report describes every defined call.
func (r *Registry) Report(sink map[string]any) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	calls := make(map[string]any, len(r.defs))
	for name, def := range r.defs {
		calls[name] = def.GetRaw("module", "")
	}
	sink["calls"] = calls
	sink["modules"] = slices.Sorted(maps.Keys(r.modules))
}

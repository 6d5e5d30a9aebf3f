package module

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fieldside/sideline/internal/exam"
)

// Factory constructs a controller bound to the session's runtime.
type Factory func(rt *Runtime) (Controller, error)

// Registry maintains known controller factories keyed by module ID.
type Registry struct {
	mu        sync.RWMutex
	factories map[exam.ModuleID]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[exam.ModuleID]Factory{}}
}

// Register installs a controller factory. Returns an error if the ID already
// exists.
func (r *Registry) Register(id exam.ModuleID, factory Factory) error {
	if !id.IsValid() {
		return fmt.Errorf("module: invalid id %q", id)
	}
	if factory == nil {
		return fmt.Errorf("module: factory is required for %s", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("module: %s already registered", id)
	}
	r.factories[id] = factory
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(id exam.ModuleID, factory Factory) {
	if err := r.Register(id, factory); err != nil {
		panic(err)
	}
}

// Resolve constructs a controller by module ID.
func (r *Registry) Resolve(id exam.ModuleID, rt *Runtime) (Controller, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("module: unknown id %s", id)
	}
	ctrl, err := factory(rt)
	if err != nil {
		return nil, err
	}
	if ctrl.Module() != id {
		return nil, fmt.Errorf("module: factory for %s built controller for %s", id, ctrl.Module())
	}
	return ctrl, nil
}

// IDs returns a sorted list of registered module identifiers.
func (r *Registry) IDs() []exam.ModuleID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]exam.ModuleID, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

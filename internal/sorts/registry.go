// Package sorts provides the candidate sort routines the harness can run:
// built-in reference algorithms, deliberately broken candidates for
// exercising the failure path, and Go scripts interpreted at runtime.
package sorts

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"sortbench/internal/spec"
)

// ErrUnknownSort is returned by Lookup for unregistered names.
var ErrUnknownSort = errors.New("unknown sort")

// Registry maps candidate names to sorters.
type Registry struct {
	mu      sync.RWMutex
	sorters map[string]spec.Sorter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sorters: make(map[string]spec.Sorter)}
}

// Default returns a registry preloaded with the built-in candidates.
func Default() *Registry {
	r := NewRegistry()
	for name, s := range Builtins() {
		r.sorters[name] = s
	}
	return r
}

// Register adds or replaces a candidate.
func (r *Registry) Register(name string, s spec.Sorter) error {
	if name == "" {
		return fmt.Errorf("sort name required")
	}
	if s == nil {
		return fmt.Errorf("sort %q: nil sorter", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sorters[name] = s
	return nil
}

// Lookup returns the named candidate.
func (r *Registry) Lookup(name string) (spec.Sorter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sorters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownSort, name, r.namesLocked())
	}
	return s, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.sorters))
	for name := range r.sorters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package jsrt

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Func is a resolved entry point. Arguments are plain JSON values
// (map[string]any, []any, string, float64, bool, nil).
type Func func(ctx context.Context, args ...any) (any, error)

// VM is one isolated execution context of an embeddable engine.
type VM interface {
	// Load evaluates program source; name is used in stack traces.
	Load(name, src string) error
	// Entry resolves a global callable.
	Entry(name string) (Func, error)
	Close() error
}

// Factory builds a fresh VM (goja, a V8 binding, ...).
type Factory func() (VM, error)

var (
	regMu    sync.RWMutex
	registry = map[string]Factory{}
)

// Register is called from each backend's init().
func Register(name string, f Factory) {
	regMu.Lock()
	registry[name] = f
	regMu.Unlock()
}

// Backends lists the registered backend names.
func Backends() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func newVM(name string) (VM, error) {
	regMu.RLock()
	f, ok := registry[name]
	regMu.RUnlock()
	if !ok {
		return nil, &UnavailableError{Backend: name}
	}
	vm, err := f()
	if err != nil {
		return nil, &UnavailableError{Backend: name, Cause: fmt.Errorf("construct: %w", err)}
	}
	return vm, nil
}

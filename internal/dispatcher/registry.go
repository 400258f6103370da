package dispatcher

import (
	"context"
	"sort"
	"sync"

	"github.com/dshills/actionwire/internal/op"
)

// Registry maps operation type names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler // type name -> handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register stores h under typeName. A handler already registered under the
// same name is replaced (last write wins). The name is not validated.
func (r *Registry) Register(typeName string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[typeName] = h
}

// RegisterFunc registers a handler function under typeName.
func (r *Registry) RegisterFunc(typeName string, fn func(ctx context.Context, rec op.Record) error) {
	r.Register(typeName, HandlerFunc(fn))
}

// Lookup returns the handler for typeName and whether one is registered.
func (r *Registry) Lookup(typeName string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[typeName]
	return h, ok
}

// Has returns true if a handler is registered for typeName.
func (r *Registry) Has(typeName string) bool {
	_, ok := r.Lookup(typeName)
	return ok
}

// List returns all registered type names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered type names.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

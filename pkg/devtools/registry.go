package devtools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicate is returned when a name is already registered.
var ErrDuplicate = errors.New("devtools: container already registered")

// Inspectable is the read-only view the inspector needs.
// *mvi.StateContainer implements it.
type Inspectable interface {
	Name() string
	Snapshot() (state any, version uint64)
	Pending() int
	Watch(ctx context.Context, fn func(state any, version uint64)) error
}

// Registry holds the containers exposed by the inspector.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Inspectable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Inspectable)}
}

// Register adds c under c.Name().
func (r *Registry) Register(c Inspectable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, ok := r.items[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	r.items[name] = c
	return nil
}

// Unregister removes the container registered under name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, name)
}

// Get returns the container registered under name.
func (r *Registry) Get(name string) (Inspectable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[name]
	return c, ok
}

// List returns the registered containers sorted by name.
func (r *Registry) List() []Inspectable {
	r.mu.RLock()
	list := make([]Inspectable, 0, len(r.items))
	for _, c := range r.items {
		list = append(list, c)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

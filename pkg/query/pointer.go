package query

import (
	"sync"
)

// Pointer is a weak reference to an executor.  It dereferences only while
// the executor's location has not been invalidated.  A pointer to a derived
// executor carries the executor itself and takes its validity from the
// location the executor was derived from; the registry never holds derived
// executors.
type Pointer struct {
	registry   *pointerRegistry
	key        string
	generation int64
	derived    *Executor
}

// Dereference returns the executor, or false when it has been invalidated.
func (p Pointer) Dereference() (*Executor, bool) {
	if p.registry == nil {
		return nil, false
	}
	e, ok := p.registry.lookup(p.key, p.generation)
	if !ok {
		return nil, false
	}
	if p.derived != nil {
		return p.derived, true
	}
	return e, true
}

type pointerEntry struct {
	generation int64
	executor   *Executor
}

// pointerRegistry maps location keys to their live generation.  There is one
// entry per location; entries survive invalidation so that the generation
// keeps increasing for the next executor at the same location.
type pointerRegistry struct {
	mu      sync.Mutex
	entries map[string]*pointerEntry
}

func newPointerRegistry() *pointerRegistry {
	return &pointerRegistry{entries: make(map[string]*pointerEntry)}
}

// register binds the executor to key and returns the live generation.
func (r *pointerRegistry) register(key string, e *Executor) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	if !ok {
		entry = &pointerEntry{}
		r.entries[key] = entry
	}
	entry.executor = e
	return entry.generation
}

func (r *pointerRegistry) lookup(key string, generation int64) (*Executor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	if !ok || entry.generation != generation || entry.executor == nil {
		return nil, false
	}
	return entry.executor, true
}

func (r *pointerRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// invalidateAll bumps the generation of every location.
func (r *pointerRegistry) invalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		entry.generation++
		entry.executor = nil
	}
}

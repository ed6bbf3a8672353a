package customizer

import (
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var globalCustomizers = func() *Registry {
	r := NewRegistry()
	r.customizers["deduplicate"] = Deduplicate{}
	r.customizers["framework"] = FrameworkFilter{}
	r.customizers["identity"] = Identity{}
	return r
}()

// GlobalRegistry returns the default customizer registry.  Extensions can add
// their own implementations and reference them by name from configuration.
func GlobalRegistry() *Registry {
	return globalCustomizers
}

// Registry is an index of customizers keyed by name.
type Registry struct {
	mu          sync.RWMutex
	customizers map[string]Customizer
}

func NewRegistry() *Registry {
	return &Registry{customizers: make(map[string]Customizer)}
}

// GetCustomizer does a lookup of the given name.
func (r *Registry) GetCustomizer(name string) (Customizer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customizers[name]
	return c, ok
}

// PutCustomizer registers c under the given name.  It is an error to
// register the same name twice.
func (r *Registry) PutCustomizer(name string, c Customizer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customizers[name]; ok {
		return status.Errorf(codes.AlreadyExists, "duplicate Customizer %q", name)
	}
	r.customizers[name] = c
	return nil
}

// GetNamedCustomizers returns the customizers in the order named.
func (r *Registry) GetNamedCustomizers(names []string) (want []Customizer, err error) {
	for _, name := range names {
		c, ok := r.GetCustomizer(name)
		if !ok {
			return nil, status.Errorf(codes.NotFound, "Customizer not found: %q", name)
		}
		want = append(want, c)
	}
	return
}

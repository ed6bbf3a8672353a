package scope

import (
	"sort"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var globalContributors = NewRegistry()

// GlobalRegistry returns the default contributor registry.  Extensions can add
// their own contributors and reference them by name from configuration.
func GlobalRegistry() *Registry {
	return globalContributors
}

// Registry is an index of contributors keyed by name.  It is safe for
// concurrent use.
type Registry struct {
	mu           sync.RWMutex
	contributors map[string]Contributor
}

func NewRegistry() *Registry {
	return &Registry{contributors: make(map[string]Contributor)}
}

// AddContributor adds the given contributor.  It is an error to add the same
// name twice.
func (r *Registry) AddContributor(c Contributor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contributors[c.Name()]; ok {
		return status.Errorf(codes.AlreadyExists, "duplicate scope.Contributor %q", c.Name())
	}
	r.contributors[c.Name()] = c
	return nil
}

// GetContributor does a lookup of the given name.
func (r *Registry) GetContributor(name string) (Contributor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contributors[name]
	return c, ok
}

// Names returns the sorted list of registered names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.contributors))
	for name := range r.contributors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetNamedContributors returns the contributors in the order named.
func (r *Registry) GetNamedContributors(names []string) (want []Contributor, err error) {
	for _, name := range names {
		c, ok := r.GetContributor(name)
		if !ok {
			return nil, status.Errorf(codes.NotFound, "scope.Contributor not found: %q", name)
		}
		want = append(want, c)
	}
	return
}

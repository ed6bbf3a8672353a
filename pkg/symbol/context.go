package symbol

import "maps"

// KindFramework is the well-known context key naming the active framework.
const KindFramework = "framework"

// Context is a read-only key/value association that influences matching.
type Context map[string]string

// Framework returns the active framework, or "".
func (c Context) Framework() string {
	return c[KindFramework]
}

// Get returns the value for the given key.
func (c Context) Get(key string) (string, bool) {
	v, ok := c[key]
	return v, ok
}

// Clone returns a copy that can be handed out without exposing the original.
func (c Context) Clone() Context {
	if c == nil {
		return Context{}
	}
	return maps.Clone(c)
}

// Merge returns a new context with the entries of other layered over c.
func (c Context) Merge(other Context) Context {
	merged := c.Clone()
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

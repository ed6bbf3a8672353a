// Package customizer post-processes raw query results before they are
// returned to the caller.
package customizer

import (
	"github.com/stackb/websymbols/pkg/symbol"
)

// Request describes the query whose results are being customized.
type Request struct {
	// Query is the qualified name being matched or completed.  For list
	// queries the name is empty.
	Query symbol.QualifiedName
	// Strict reports whether the query was restricted to the caller's scope.
	Strict bool
	// Context is the executor context.
	Context symbol.Context
}

// Customizer implementations are capable of filtering or reprioritizing a
// candidate list.  Implementations must not mutate the symbols they are
// given; symbols are shared between queries.
type Customizer interface {
	// Customizers have canonical names.
	Name() string
	// CustomizeMatches post-processes name match and list results.
	CustomizeMatches(req Request, matches []*symbol.Symbol) []*symbol.Symbol
	// CustomizeCompletions post-processes code completion results.
	CustomizeCompletions(req Request, items []symbol.CompletionItem) []symbol.CompletionItem
}

// ModificationTracker is implemented by customizers whose behavior can
// change after construction.
type ModificationTracker interface {
	ModificationCount() int64
}

// Chain applies a list of customizers in order.
type Chain struct {
	chain []Customizer
}

func NewChain(chain ...Customizer) *Chain {
	return &Chain{chain: chain}
}

// Name implements part of the Customizer interface.
func (c *Chain) Name() string {
	return "chain"
}

// Customizers returns the chain.
func (c *Chain) Customizers() []Customizer {
	return append([]Customizer(nil), c.chain...)
}

// CustomizeMatches implements part of the Customizer interface.
func (c *Chain) CustomizeMatches(req Request, matches []*symbol.Symbol) []*symbol.Symbol {
	for _, next := range c.chain {
		matches = next.CustomizeMatches(req, matches)
	}
	return matches
}

// CustomizeCompletions implements part of the Customizer interface.
func (c *Chain) CustomizeCompletions(req Request, items []symbol.CompletionItem) []symbol.CompletionItem {
	for _, next := range c.chain {
		items = next.CustomizeCompletions(req, items)
	}
	return items
}

// ModificationCount implements the ModificationTracker interface.
func (c *Chain) ModificationCount() (sum int64) {
	for _, next := range c.chain {
		if t, ok := next.(ModificationTracker); ok {
			sum += t.ModificationCount()
		}
	}
	return
}

// Identity is a customizer that returns its input unchanged.
type Identity struct{}

// Name implements part of the Customizer interface.
func (Identity) Name() string { return "identity" }

// CustomizeMatches implements part of the Customizer interface.
func (Identity) CustomizeMatches(req Request, matches []*symbol.Symbol) []*symbol.Symbol {
	return matches
}

// CustomizeCompletions implements part of the Customizer interface.
func (Identity) CustomizeCompletions(req Request, items []symbol.CompletionItem) []symbol.CompletionItem {
	return items
}

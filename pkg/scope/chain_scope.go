package scope

import (
	"strings"

	"github.com/stackb/websymbols/pkg/symbol"
)

// ChainScope implements Contributor over an ordered chain of contributors.
// Results are concatenated in chain order, so earlier contributors take
// precedence.
type ChainScope struct {
	name  string
	chain []Contributor
	caps  Capability
}

func NewChainScope(name string, chain ...Contributor) *ChainScope {
	var caps Capability
	for _, next := range chain {
		caps |= next.Capabilities()
	}
	return &ChainScope{
		name:  name,
		chain: chain,
		caps:  caps,
	}
}

// Name implements part of the Contributor interface.
func (r *ChainScope) Name() string {
	return r.name
}

// Capabilities implements part of the Contributor interface.
func (r *ChainScope) Capabilities() Capability {
	return r.caps
}

// Contributors returns the chain.
func (r *ChainScope) Contributors() []Contributor {
	return append([]Contributor(nil), r.chain...)
}

// MatchSymbols implements part of the NameProvider interface.
func (r *ChainScope) MatchSymbols(query symbol.QualifiedName, m Matcher) (matches []*symbol.Symbol) {
	for _, next := range r.chain {
		if p, ok := AsNameProvider(next); ok {
			matches = append(matches, p.MatchSymbols(query, m)...)
		}
	}
	return
}

// ListSymbols implements part of the ListProvider interface.
func (r *ChainScope) ListSymbols(kind symbol.QualifiedKind) (symbols []*symbol.Symbol) {
	for _, next := range r.chain {
		if p, ok := AsListProvider(next); ok {
			symbols = append(symbols, p.ListSymbols(kind)...)
		}
	}
	return
}

// CompletionItems implements part of the CompletionProvider interface.
func (r *ChainScope) CompletionItems(query symbol.QualifiedName, position int) (items []symbol.CompletionItem) {
	for _, next := range r.chain {
		if p, ok := AsCompletionProvider(next); ok {
			items = append(items, p.CompletionItems(query, position)...)
		}
	}
	return
}

// ExclusiveFor implements part of the ExclusiveProvider interface.
func (r *ChainScope) ExclusiveFor(kind symbol.QualifiedKind) bool {
	for _, next := range r.chain {
		if p, ok := AsExclusiveProvider(next); ok && p.ExclusiveFor(kind) {
			return true
		}
	}
	return false
}

// ModificationCount implements the ModificationTracker interface.
func (r *ChainScope) ModificationCount() int64 {
	return SumModificationCounts(r.chain)
}

// String implements the fmt.Stringer interface
func (r *ChainScope) String() string {
	var buf strings.Builder
	for _, next := range r.chain {
		buf.WriteString(next.String())
		buf.WriteRune('\n')
	}
	return buf.String()
}

// SumModificationCounts adds up the counts of all contributors that track
// modifications.
func SumModificationCounts(contributors []Contributor) (sum int64) {
	for _, c := range contributors {
		if t, ok := c.(ModificationTracker); ok {
			sum += t.ModificationCount()
		}
	}
	return
}

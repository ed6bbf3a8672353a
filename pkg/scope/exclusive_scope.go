package scope

import (
	"fmt"

	"github.com/stackb/websymbols/pkg/symbol"
)

// ExclusiveScope decorates a contributor with a claim of exclusive ownership
// over a set of kinds.
type ExclusiveScope struct {
	next  Contributor
	kinds map[symbol.QualifiedKind]bool
}

func NewExclusiveScope(next Contributor, kinds ...symbol.QualifiedKind) *ExclusiveScope {
	set := make(map[symbol.QualifiedKind]bool, len(kinds))
	for _, kind := range kinds {
		set[kind] = true
	}
	return &ExclusiveScope{
		next:  next,
		kinds: set,
	}
}

// Name implements part of the Contributor interface.
func (r *ExclusiveScope) Name() string {
	return r.next.Name()
}

// Capabilities implements part of the Contributor interface.
func (r *ExclusiveScope) Capabilities() Capability {
	return r.next.Capabilities() | Exclusivity
}

// MatchSymbols implements part of the NameProvider interface.
func (r *ExclusiveScope) MatchSymbols(query symbol.QualifiedName, m Matcher) []*symbol.Symbol {
	if p, ok := AsNameProvider(r.next); ok {
		return p.MatchSymbols(query, m)
	}
	return nil
}

// ListSymbols implements part of the ListProvider interface.
func (r *ExclusiveScope) ListSymbols(kind symbol.QualifiedKind) []*symbol.Symbol {
	if p, ok := AsListProvider(r.next); ok {
		return p.ListSymbols(kind)
	}
	return nil
}

// CompletionItems implements part of the CompletionProvider interface.
func (r *ExclusiveScope) CompletionItems(query symbol.QualifiedName, position int) []symbol.CompletionItem {
	if p, ok := AsCompletionProvider(r.next); ok {
		return p.CompletionItems(query, position)
	}
	return nil
}

// ExclusiveFor implements part of the ExclusiveProvider interface.
func (r *ExclusiveScope) ExclusiveFor(kind symbol.QualifiedKind) bool {
	if r.kinds[kind] {
		return true
	}
	if p, ok := AsExclusiveProvider(r.next); ok {
		return p.ExclusiveFor(kind)
	}
	return false
}

// ModificationCount implements the ModificationTracker interface.
func (r *ExclusiveScope) ModificationCount() int64 {
	if t, ok := r.next.(ModificationTracker); ok {
		return t.ModificationCount()
	}
	return 0
}

// String implements the fmt.Stringer interface
func (r *ExclusiveScope) String() string {
	return fmt.Sprintf("exclusive(%d kinds) %s", len(r.kinds), r.next.String())
}

// Package scope defines the contributors that supply candidate symbols to a
// query, and how they stack.
package scope

import (
	"fmt"

	"github.com/stackb/websymbols/pkg/symbol"
)

// Capability is a bit set naming the provider interfaces a contributor
// implements.  Executors dispatch on the tag rather than probing every
// interface.
type Capability uint8

const (
	// NameMatch contributors implement NameProvider.
	NameMatch Capability = 1 << iota
	// Listing contributors implement ListProvider.
	Listing
	// Completion contributors implement CompletionProvider.
	Completion
	// Exclusivity contributors implement ExclusiveProvider.
	Exclusivity
)

// Has reports whether all bits of want are set.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Contributor is a source of candidate symbols.  Contributors are compared by
// identity when scopes are composed, so implementations should be pointer
// types.
type Contributor interface {
	fmt.Stringer
	// Contributors have canonical names.  The name is recorded as the origin
	// of the symbols they supply.
	Name() string
	// Capabilities tags the provider interfaces implemented.
	Capabilities() Capability
}

// Matcher decides whether a candidate answers a name query.  It is supplied
// by the executor and encapsulates name conversion and pattern rules.
type Matcher interface {
	// Exact reports whether matching within the given kind is plain name
	// equality, which lets indexed contributors do a direct lookup.
	Exact(kind symbol.QualifiedKind) bool
	// Match reports whether candidate answers query.
	Match(query symbol.QualifiedName, candidate *symbol.Symbol) bool
}

// NameProvider resolves a single qualified name.
type NameProvider interface {
	Contributor
	// MatchSymbols returns the symbols matching query in contributor order.
	// A nil matcher means exact name equality.
	MatchSymbols(query symbol.QualifiedName, m Matcher) []*symbol.Symbol
}

// ListProvider enumerates the symbols of a kind.
type ListProvider interface {
	Contributor
	// ListSymbols returns all symbols of the given kind in contributor order.
	ListSymbols(kind symbol.QualifiedKind) []*symbol.Symbol
}

// CompletionProvider proposes completions that are not derived from listed
// symbols.
type CompletionProvider interface {
	Contributor
	// CompletionItems returns proposals for the name of query at the given
	// position.
	CompletionItems(query symbol.QualifiedName, position int) []symbol.CompletionItem
}

// ExclusiveProvider claims exclusive ownership of some kinds.  When a
// contributor is exclusive for a kind callers may skip fallback lookups.
type ExclusiveProvider interface {
	Contributor
	ExclusiveFor(kind symbol.QualifiedKind) bool
}

// ModificationTracker is implemented by contributors whose content can change.
// The count never decreases.
type ModificationTracker interface {
	ModificationCount() int64
}

// AsNameProvider returns c as a NameProvider when it is tagged with NameMatch.
func AsNameProvider(c Contributor) (NameProvider, bool) {
	if !c.Capabilities().Has(NameMatch) {
		return nil, false
	}
	p, ok := c.(NameProvider)
	return p, ok
}

// AsListProvider returns c as a ListProvider when it is tagged with Listing.
func AsListProvider(c Contributor) (ListProvider, bool) {
	if !c.Capabilities().Has(Listing) {
		return nil, false
	}
	p, ok := c.(ListProvider)
	return p, ok
}

// AsCompletionProvider returns c as a CompletionProvider when it is tagged
// with Completion.
func AsCompletionProvider(c Contributor) (CompletionProvider, bool) {
	if !c.Capabilities().Has(Completion) {
		return nil, false
	}
	p, ok := c.(CompletionProvider)
	return p, ok
}

// AsExclusiveProvider returns c as an ExclusiveProvider when it is tagged with
// Exclusivity.
func AsExclusiveProvider(c Contributor) (ExclusiveProvider, bool) {
	if !c.Capabilities().Has(Exclusivity) {
		return nil, false
	}
	p, ok := c.(ExclusiveProvider)
	return p, ok
}

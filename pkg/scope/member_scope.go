package scope

import (
	"github.com/stackb/websymbols/pkg/symbol"
)

// MemberScope exposes the members of a symbol as a contributor.  It is the
// scope in which the next segment of a path is resolved.
type MemberScope struct {
	parent *symbol.Symbol
}

func NewMemberScope(parent *symbol.Symbol) *MemberScope {
	return &MemberScope{parent: parent}
}

// Name implements part of the Contributor interface.
func (r *MemberScope) Name() string {
	return r.parent.Origin
}

// Capabilities implements part of the Contributor interface.
func (r *MemberScope) Capabilities() Capability {
	return NameMatch | Listing
}

// MatchSymbols implements part of the NameProvider interface.
func (r *MemberScope) MatchSymbols(query symbol.QualifiedName, m Matcher) (matches []*symbol.Symbol) {
	kind := query.QualifiedKind()
	for _, member := range r.parent.Members {
		if member.QualifiedKind() != kind {
			continue
		}
		if m == nil {
			if !member.IsPattern() && member.Name == query.Name {
				matches = append(matches, member)
			}
		} else if m.Match(query, member) {
			matches = append(matches, member)
		}
	}
	return
}

// ListSymbols implements part of the ListProvider interface.
func (r *MemberScope) ListSymbols(kind symbol.QualifiedKind) (symbols []*symbol.Symbol) {
	for _, member := range r.parent.Members {
		if member.QualifiedKind() == kind {
			symbols = append(symbols, member)
		}
	}
	return
}

// String implements the fmt.Stringer interface
func (r *MemberScope) String() string {
	return "members of " + r.parent.String()
}

// MemberScopes returns one MemberScope per symbol that has members.
func MemberScopes(parents []*symbol.Symbol) []Contributor {
	var scopes []Contributor
	for _, parent := range parents {
		if len(parent.Members) > 0 {
			scopes = append(scopes, NewMemberScope(parent))
		}
	}
	return scopes
}

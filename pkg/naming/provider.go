package naming

import (
	"fmt"

	"github.com/stackb/websymbols/pkg/symbol"
)

// Target selects which set of names Provider.Names produces.
type Target int

const (
	// Canonical is the single form a name is stored and compared under.
	Canonical Target = iota
	// Match is the set of forms used when comparing a query against a
	// candidate.
	Match
	// CompletionVariants is the set of forms proposed by code completion.
	CompletionVariants
)

// Rules binds name converters to a (namespace, kind) pair.
type Rules struct {
	Kind symbol.QualifiedKind
	// Canonical defaults to as-is.
	Canonical Converter
	// Match defaults to the canonical converter.
	Match []Converter
	// Completion defaults to as-is.
	Completion []Converter
}

// NewRules builds Rules from converter names.  Empty arguments take the
// defaults documented on Rules.
func NewRules(kind symbol.QualifiedKind, canonical string, match, completion []string) (Rules, error) {
	r := Rules{Kind: kind}
	if canonical != "" {
		c, err := LookupConverter(canonical)
		if err != nil {
			return r, fmt.Errorf("%v canonical: %w", kind, err)
		}
		r.Canonical = c
	}
	for _, name := range match {
		c, err := LookupConverter(name)
		if err != nil {
			return r, fmt.Errorf("%v match: %w", kind, err)
		}
		r.Match = append(r.Match, c)
	}
	for _, name := range completion {
		c, err := LookupConverter(name)
		if err != nil {
			return r, fmt.Errorf("%v completion: %w", kind, err)
		}
		r.Completion = append(r.Completion, c)
	}
	return r, nil
}

// Provider converts between canonical, match and display name forms.  A
// Provider is immutable and safe for concurrent use.
type Provider struct {
	rules map[symbol.QualifiedKind]Rules
}

// NewProvider constructs a provider.  When two rules share a kind, the later
// one wins.
func NewProvider(rules ...Rules) *Provider {
	p := &Provider{rules: make(map[symbol.QualifiedKind]Rules, len(rules))}
	for _, r := range rules {
		p.rules[r.Kind] = r
	}
	return p
}

// WithRules returns a new provider with the given rules layered over the
// receiver's.  The receiver is not modified.
func (p *Provider) WithRules(rules []Rules) *Provider {
	next := &Provider{rules: make(map[symbol.QualifiedKind]Rules, len(p.rules)+len(rules))}
	for k, r := range p.rules {
		next.rules[k] = r
	}
	for _, r := range rules {
		next.rules[r.Kind] = r
	}
	return next
}

// HasRules reports whether any rule applies to the given kind.  Without rules
// names compare by plain equality.
func (p *Provider) HasRules(kind symbol.QualifiedKind) bool {
	_, ok := p.rules[kind]
	return ok
}

// Names returns the forms of the given name for the requested target.  The
// result is never empty.
func (p *Provider) Names(qn symbol.QualifiedName, target Target) []string {
	r, ok := p.rules[qn.QualifiedKind()]
	if !ok {
		return []string{qn.Name}
	}
	switch target {
	case Canonical:
		return []string{r.canonical(qn.Name)}
	case Match:
		if len(r.Match) == 0 {
			return []string{r.canonical(qn.Name)}
		}
		return convertAll(qn.Name, r.Match)
	case CompletionVariants:
		if len(r.Completion) == 0 {
			return []string{qn.Name}
		}
		return convertAll(qn.Name, r.Completion)
	}
	return []string{qn.Name}
}

// Matches reports whether candidate names the same symbol as the query under
// the match rules of the query's kind.
func (p *Provider) Matches(query symbol.QualifiedName, candidate string) bool {
	if !p.HasRules(query.QualifiedKind()) {
		return query.Name == candidate
	}
	queryNames := p.Names(query, Match)
	candidateNames := p.Names(symbol.QualifiedName{Namespace: query.Namespace, Kind: query.Kind, Name: candidate}, Match)
	for _, q := range queryNames {
		for _, c := range candidateNames {
			if q == c {
				return true
			}
		}
	}
	return false
}

func (r Rules) canonical(name string) string {
	if r.Canonical == nil {
		return name
	}
	return r.Canonical(name)
}

func convertAll(name string, converters []Converter) []string {
	names := make([]string, 0, len(converters))
	seen := make(map[string]bool, len(converters))
	for _, c := range converters {
		n := c(name)
		if seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	return names
}

package symbol

import (
	"fmt"
	"strings"
)

// Symbol is the result of a successful match.  Symbols are shared between
// concurrent queries and must not be mutated once handed to a scope.
type Symbol struct {
	// Namespace of the symbol.
	Namespace Namespace
	// Kind of the symbol.
	Kind Kind
	// Name is the literal name.  It is empty for pure pattern symbols.
	Name string
	// Origin is the name of the contributor that supplied the symbol.
	Origin string
	// Framework restricts visibility to executors whose context names this
	// framework.  Empty means visible everywhere.
	Framework string
	// Priority orders competing completions.
	Priority Priority
	// Virtual symbols are synthetic and not backed by a declaration.
	Virtual bool
	// Abstract symbols are declaration-only templates.
	Abstract bool
	// Pattern is a templated name; see package pattern.
	Pattern string
	// Description is free-form documentation.
	Description string
	// Members are the nested symbols that form the scope for the next
	// segment of a path.
	Members []*Symbol
}

// NewSymbol constructs a new symbol pointer with the given arguments.
func NewSymbol(ns Namespace, kind Kind, name, origin string) *Symbol {
	return &Symbol{
		Namespace: ns,
		Kind:      kind,
		Name:      name,
		Origin:    origin,
		Priority:  PriorityNormal,
	}
}

// QualifiedName returns the (namespace, kind, name) triple.
func (s *Symbol) QualifiedName() QualifiedName {
	return QualifiedName{Namespace: s.Namespace, Kind: s.Kind, Name: s.Name}
}

// QualifiedKind returns the (namespace, kind) pair.
func (s *Symbol) QualifiedKind() QualifiedKind {
	return QualifiedKind{Namespace: s.Namespace, Kind: s.Kind}
}

// IsPattern reports whether the symbol name is templated.
func (s *Symbol) IsPattern() bool {
	return s.Pattern != ""
}

// VisibleIn reports whether the symbol is visible under the given framework.
func (s *Symbol) VisibleIn(framework string) bool {
	return s.Framework == "" || s.Framework == framework
}

// WithName returns a shallow copy of the symbol under a different name with
// the pattern cleared.  It is used to materialize pattern expansions.
func (s *Symbol) WithName(name string) *Symbol {
	clone := *s
	clone.Name = name
	clone.Pattern = ""
	return &clone
}

// String implements fmt.Stringer
func (s *Symbol) String() string {
	var flags []string
	if s.Virtual {
		flags = append(flags, "virtual")
	}
	if s.Abstract {
		flags = append(flags, "abstract")
	}
	name := s.Name
	if s.IsPattern() {
		name = "<" + s.Pattern + ">"
	}
	if len(flags) > 0 {
		return fmt.Sprintf("(%s/%s/%s<%s> %s)", s.Namespace, s.Kind, name, s.Origin, strings.Join(flags, ","))
	}
	return fmt.Sprintf("(%s/%s/%s<%s>)", s.Namespace, s.Kind, name, s.Origin)
}

// Filter returns the symbols for which keep returns true, preserving order.
func Filter(symbols []*Symbol, keep func(*Symbol) bool) []*Symbol {
	var out []*Symbol
	for _, sym := range symbols {
		if keep(sym) {
			out = append(out, sym)
		}
	}
	return out
}

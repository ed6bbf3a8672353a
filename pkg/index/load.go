package index

import (
	"fmt"

	"github.com/stackb/websymbols/pkg/scope"
	"github.com/stackb/websymbols/pkg/symbol"
)

// Load puts the symbols of the spec into the given scope and marks its
// exclusive kinds.
func Load(spec *IndexSpec, s *scope.TrieScope) error {
	for i, ss := range spec.Symbols {
		sym, err := ss.ToSymbol(spec.Name)
		if err != nil {
			return fmt.Errorf("%s: symbol %d: %w", spec.Name, i, err)
		}
		if err := s.PutSymbol(sym); err != nil {
			return fmt.Errorf("%s: symbol %d: %w", spec.Name, i, err)
		}
	}
	for _, text := range spec.Exclusive {
		kind, err := symbol.ParseQualifiedKind(text)
		if err != nil {
			return fmt.Errorf("%s: exclusive: %w", spec.Name, err)
		}
		s.SetExclusive(kind)
	}
	return nil
}

// NewScope creates a TrieScope named after the spec and loads it.
func NewScope(spec *IndexSpec) (*scope.TrieScope, error) {
	s := scope.NewTrieScope(spec.Name)
	if err := Load(spec, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ToSymbol converts the spec.  The origin defaults to the given name.
func (ss *SymbolSpec) ToSymbol(origin string) (*symbol.Symbol, error) {
	priority, err := symbol.ParsePriority(ss.Priority)
	if err != nil {
		return nil, err
	}
	if ss.Origin != "" {
		origin = ss.Origin
	}
	sym := &symbol.Symbol{
		Namespace:   symbol.Namespace(ss.Namespace),
		Kind:        symbol.Kind(ss.Kind),
		Name:        ss.Name,
		Pattern:     ss.Pattern,
		Origin:      origin,
		Framework:   ss.Framework,
		Priority:    priority,
		Virtual:     ss.Virtual,
		Abstract:    ss.Abstract,
		Description: ss.Description,
	}
	for i, m := range ss.Members {
		member, err := m.ToSymbol(origin)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		sym.Members = append(sym.Members, member)
	}
	return sym, nil
}

// FromSymbol converts a symbol into its spec.
func FromSymbol(sym *symbol.Symbol) *SymbolSpec {
	ss := &SymbolSpec{
		Namespace:   string(sym.Namespace),
		Kind:        string(sym.Kind),
		Name:        sym.Name,
		Pattern:     sym.Pattern,
		Origin:      sym.Origin,
		Framework:   sym.Framework,
		Virtual:     sym.Virtual,
		Abstract:    sym.Abstract,
		Description: sym.Description,
	}
	if sym.Priority != symbol.PriorityNormal {
		ss.Priority = sym.Priority.String()
	}
	for _, m := range sym.Members {
		ss.Members = append(ss.Members, FromSymbol(m))
	}
	return ss
}

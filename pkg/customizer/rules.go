package customizer

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/stackb/websymbols/pkg/pattern"
	"github.com/stackb/websymbols/pkg/symbol"
)

// Selector picks the symbols a rule applies to.  Empty fields match
// everything.
type Selector struct {
	// Glob is a doublestar pattern matched against the symbol name, or the
	// pattern source for pattern symbols.
	Glob string
	// Kind restricts the rule to one (namespace, kind).
	Kind symbol.QualifiedKind
	// Origin restricts the rule to symbols from one contributor.
	Origin string
	// Framework restricts the rule to executors whose context names this
	// framework.
	Framework string
}

// Validate checks the glob syntax.
func (s Selector) Validate() error {
	if s.Glob != "" && !doublestar.ValidatePattern(s.Glob) {
		return fmt.Errorf("invalid glob %q", s.Glob)
	}
	return nil
}

func (s Selector) active(req Request) bool {
	return s.Framework == "" || s.Framework == req.Context.Framework()
}

func (s Selector) selects(sym *symbol.Symbol) bool {
	if sym == nil {
		return false
	}
	if s.Kind.Namespace != "" && s.Kind != sym.QualifiedKind() {
		return false
	}
	if s.Origin != "" && s.Origin != sym.Origin {
		return false
	}
	if s.Glob != "" {
		name := sym.Name
		if name == "" {
			name = sym.Pattern
		}
		if !pattern.MatchName(s.Glob, name) {
			return false
		}
	}
	return true
}

func (s Selector) String() string {
	return fmt.Sprintf("glob=%q kind=%v origin=%q framework=%q", s.Glob, s.Kind, s.Origin, s.Framework)
}

// PriorityRule assigns a priority to the selected symbols.
type PriorityRule struct {
	Selector
	Priority symbol.Priority
}

func NewPriorityRule(sel Selector, priority symbol.Priority) (*PriorityRule, error) {
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("priority rule: %w", err)
	}
	return &PriorityRule{Selector: sel, Priority: priority}, nil
}

// Name implements part of the Customizer interface.
func (r *PriorityRule) Name() string {
	return "priority(" + r.Selector.String() + ")"
}

// CustomizeMatches implements part of the Customizer interface.  Selected
// symbols are replaced by copies carrying the new priority.
func (r *PriorityRule) CustomizeMatches(req Request, matches []*symbol.Symbol) []*symbol.Symbol {
	if !r.active(req) {
		return matches
	}
	out := make([]*symbol.Symbol, len(matches))
	for i, sym := range matches {
		if r.selects(sym) && sym.Priority != r.Priority {
			clone := *sym
			clone.Priority = r.Priority
			sym = &clone
		}
		out[i] = sym
	}
	return out
}

// CustomizeCompletions implements part of the Customizer interface.
func (r *PriorityRule) CustomizeCompletions(req Request, items []symbol.CompletionItem) []symbol.CompletionItem {
	if !r.active(req) {
		return items
	}
	out := make([]symbol.CompletionItem, len(items))
	for i, item := range items {
		if r.selects(item.Symbol) {
			item.Priority = r.Priority
		}
		out[i] = item
	}
	return out
}

// ExcludeRule drops the selected symbols.
type ExcludeRule struct {
	Selector
}

func NewExcludeRule(sel Selector) (*ExcludeRule, error) {
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("exclude rule: %w", err)
	}
	return &ExcludeRule{Selector: sel}, nil
}

// Name implements part of the Customizer interface.
func (r *ExcludeRule) Name() string {
	return "exclude(" + r.Selector.String() + ")"
}

// CustomizeMatches implements part of the Customizer interface.
func (r *ExcludeRule) CustomizeMatches(req Request, matches []*symbol.Symbol) []*symbol.Symbol {
	if !r.active(req) {
		return matches
	}
	return symbol.Filter(matches, func(sym *symbol.Symbol) bool {
		return !r.selects(sym)
	})
}

// CustomizeCompletions implements part of the Customizer interface.
func (r *ExcludeRule) CustomizeCompletions(req Request, items []symbol.CompletionItem) []symbol.CompletionItem {
	if !r.active(req) {
		return items
	}
	var out []symbol.CompletionItem
	for _, item := range items {
		if !r.selects(item.Symbol) {
			out = append(out, item)
		}
	}
	return out
}

// Deduplicate drops repeated results, keeping the first (highest
// precedence) occurrence.  Matches are keyed by qualified name and origin;
// completions by inserted name.
type Deduplicate struct{}

// Name implements part of the Customizer interface.
func (Deduplicate) Name() string { return "deduplicate" }

// CustomizeMatches implements part of the Customizer interface.
func (Deduplicate) CustomizeMatches(req Request, matches []*symbol.Symbol) []*symbol.Symbol {
	type key struct {
		qn      symbol.QualifiedName
		pattern string
		origin  string
	}
	seen := make(map[key]bool, len(matches))
	return symbol.Filter(matches, func(sym *symbol.Symbol) bool {
		k := key{sym.QualifiedName(), sym.Pattern, sym.Origin}
		if seen[k] {
			return false
		}
		seen[k] = true
		return true
	})
}

// CustomizeCompletions implements part of the Customizer interface.
func (Deduplicate) CustomizeCompletions(req Request, items []symbol.CompletionItem) []symbol.CompletionItem {
	seen := make(map[string]bool, len(items))
	var out []symbol.CompletionItem
	for _, item := range items {
		if seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		out = append(out, item)
	}
	return out
}

// FrameworkFilter drops results that belong to a framework other than the
// one named by the request context.  Completion items without a symbol are
// kept.
type FrameworkFilter struct{}

// Name implements part of the Customizer interface.
func (FrameworkFilter) Name() string { return "framework" }

// CustomizeMatches implements part of the Customizer interface.
func (FrameworkFilter) CustomizeMatches(req Request, matches []*symbol.Symbol) []*symbol.Symbol {
	framework := req.Context.Framework()
	return symbol.Filter(matches, func(sym *symbol.Symbol) bool {
		return sym.VisibleIn(framework)
	})
}

// CustomizeCompletions implements part of the Customizer interface.
func (FrameworkFilter) CustomizeCompletions(req Request, items []symbol.CompletionItem) []symbol.CompletionItem {
	framework := req.Context.Framework()
	var out []symbol.CompletionItem
	for _, item := range items {
		if item.Symbol == nil || item.Symbol.VisibleIn(framework) {
			out = append(out, item)
		}
	}
	return out
}

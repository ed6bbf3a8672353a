package query

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/stackb/websymbols/pkg/naming"
	"github.com/stackb/websymbols/pkg/pattern"
	"github.com/stackb/websymbols/pkg/scope"
	"github.com/stackb/websymbols/pkg/symbol"
)

// compiledPatterns caches compiled pattern sources.  Failed compilations are
// cached as nil.
var compiledPatterns sync.Map // map[string]*pattern.Pattern

func compilePattern(logger zerolog.Logger, source string) *pattern.Pattern {
	if v, ok := compiledPatterns.Load(source); ok {
		return v.(*pattern.Pattern)
	}
	p, err := pattern.Compile(source)
	if err != nil {
		logger.Warn().Err(err).Msgf("ignoring invalid pattern %q", source)
		p = nil
	}
	compiledPatterns.Store(source, p)
	return p
}

// matcher implements scope.Matcher for a single query.  Pattern references
// are resolved against the literal names listed by the query's contributors.
type matcher struct {
	logger       zerolog.Logger
	names        *naming.Provider
	contributors []scope.Contributor

	mu       sync.Mutex
	resolved map[symbol.QualifiedKind][]string
}

func newMatcher(logger zerolog.Logger, names *naming.Provider, contributors []scope.Contributor) *matcher {
	return &matcher{
		logger:       logger,
		names:        names,
		contributors: contributors,
		resolved:     make(map[symbol.QualifiedKind][]string),
	}
}

// Exact implements part of the scope.Matcher interface.
func (m *matcher) Exact(kind symbol.QualifiedKind) bool {
	return !m.names.HasRules(kind)
}

// Match implements part of the scope.Matcher interface.
func (m *matcher) Match(query symbol.QualifiedName, candidate *symbol.Symbol) bool {
	if !candidate.IsPattern() {
		return m.names.Matches(query, candidate.Name)
	}
	p := compilePattern(m.logger, candidate.Pattern)
	if p == nil {
		return false
	}
	if p.Match(query.Name, m.resolve) {
		return true
	}
	for _, name := range m.names.Names(query, naming.Match) {
		if name != query.Name && p.Match(name, m.resolve) {
			return true
		}
	}
	return false
}

// resolve implements pattern.Resolver.
func (m *matcher) resolve(kind symbol.QualifiedKind) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if names, ok := m.resolved[kind]; ok {
		return names
	}
	var names []string
	seen := make(map[string]bool)
	for _, c := range m.contributors {
		lp, ok := scope.AsListProvider(c)
		if !ok {
			continue
		}
		for _, sym := range lp.ListSymbols(kind) {
			if sym.IsPattern() || seen[sym.Name] {
				continue
			}
			seen[sym.Name] = true
			names = append(names, sym.Name)
		}
	}
	m.resolved[kind] = names
	return names
}

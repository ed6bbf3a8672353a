// Package query resolves, enumerates and completes symbol names against an
// ordered stack of scope contributors.
package query

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stackb/websymbols/pkg/customizer"
	"github.com/stackb/websymbols/pkg/naming"
	"github.com/stackb/websymbols/pkg/pattern"
	"github.com/stackb/websymbols/pkg/scope"
	"github.com/stackb/websymbols/pkg/symbol"
)

// Executor answers symbol queries.  An Executor is immutable after
// construction and safe for concurrent use; derived executors are new
// instances.
type Executor struct {
	id             uuid.UUID
	logger         zerolog.Logger
	ambient        []scope.Contributor
	names          *naming.Provider
	customizer     customizer.Customizer
	context        symbol.Context
	allowResolve   bool
	expansionLimit int
	metrics        *Metrics

	// tracker is shared with the factory that created the executor.
	tracker    *atomic.Int64
	pointers   *pointerRegistry
	key        string
	generation int64
	// derived is set on executors made by WithNameConversionRules.  They
	// share the key and generation of the executor they came from.
	derived bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// WithScopes sets the ambient contributors, in precedence order.
func WithScopes(contributors ...scope.Contributor) Option {
	return func(e *Executor) { e.ambient = contributors }
}

// WithNamesProvider sets the name conversion provider.
func WithNamesProvider(names *naming.Provider) Option {
	return func(e *Executor) { e.names = names }
}

// WithCustomizer sets the results customizer.
func WithCustomizer(c customizer.Customizer) Option {
	return func(e *Executor) { e.customizer = c }
}

// WithContext sets the executor context.  The map is copied.
func WithContext(ctx symbol.Context) Option {
	return func(e *Executor) { e.context = ctx.Clone() }
}

// WithAllowResolve controls whether name match queries resolve anything.
func WithAllowResolve(allow bool) Option {
	return func(e *Executor) { e.allowResolve = allow }
}

// WithExpansionLimit bounds the number of names a single pattern expands to.
func WithExpansionLimit(limit int) Option {
	return func(e *Executor) { e.expansionLimit = limit }
}

// WithMetrics sets the collectors updated by queries.
func WithMetrics(m *Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

func withTracker(tracker *atomic.Int64) Option {
	return func(e *Executor) { e.tracker = tracker }
}

func withPointers(r *pointerRegistry, key string) Option {
	return func(e *Executor) {
		e.pointers = r
		e.key = key
	}
}

// NewExecutor constructs a new Executor.
func NewExecutor(options ...Option) *Executor {
	e := &Executor{
		id:             uuid.New(),
		logger:         zerolog.Nop(),
		names:          naming.NewProvider(),
		context:        symbol.Context{},
		allowResolve:   true,
		expansionLimit: pattern.DefaultExpansionLimit,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.tracker == nil {
		e.tracker = new(atomic.Int64)
	}
	if e.pointers == nil {
		e.pointers = newPointerRegistry()
		e.key = e.id.String()
	}
	e.generation = e.pointers.register(e.key, e)
	e.logger = e.logger.With().Str("executor", e.id.String()).Logger()
	return e
}

// ID returns the unique identifier of the executor.
func (e *Executor) ID() uuid.UUID {
	return e.id
}

// Context returns a copy of the executor context.
func (e *Executor) Context() symbol.Context {
	return e.context.Clone()
}

// Framework returns the framework named by the context, or "".
func (e *Executor) Framework() string {
	return e.context.Framework()
}

// AllowResolve reports whether name match queries resolve symbols.
func (e *Executor) AllowResolve() bool {
	return e.allowResolve
}

// NamesProvider returns the name conversion provider.
func (e *Executor) NamesProvider() *naming.Provider {
	return e.names
}

// ResultsCustomizer returns the results customizer, or nil.
func (e *Executor) ResultsCustomizer() customizer.Customizer {
	return e.customizer
}

// Scopes returns the ambient contributors.
func (e *Executor) Scopes() []scope.Contributor {
	return append([]scope.Contributor(nil), e.ambient...)
}

// ModificationCount returns a stamp that changes whenever anything the
// results depend on changes.
func (e *Executor) ModificationCount() int64 {
	count := e.tracker.Load() + scope.SumModificationCounts(e.ambient)
	if t, ok := e.customizer.(customizer.ModificationTracker); ok {
		count += t.ModificationCount()
	}
	return count
}

// WithNameConversionRules returns a new executor whose names provider has the
// given rules layered over the receiver's.  The receiver is not modified.
func (e *Executor) WithNameConversionRules(rules []naming.Rules) *Executor {
	derived := *e
	derived.id = uuid.New()
	derived.names = e.names.WithRules(rules)
	derived.logger = e.logger.With().Str("derived", derived.id.String()).Logger()
	derived.derived = true
	return &derived
}

// CreatePointer returns a pointer to the executor.
func (e *Executor) CreatePointer() Pointer {
	p := Pointer{registry: e.pointers, key: e.key, generation: e.generation}
	if e.derived {
		p.derived = e
	}
	return p
}

// HasExclusiveScopeFor reports whether any contributor, caller-supplied or
// ambient, claims exclusive ownership of the given kind.
func (e *Executor) HasExclusiveScopeFor(ns symbol.Namespace, kind symbol.Kind, callerScope []scope.Contributor) bool {
	qk := symbol.QualifiedKind{Namespace: ns, Kind: kind}
	for _, c := range scope.Compose(callerScope, e.ambient, false) {
		if p, ok := scope.AsExclusiveProvider(c); ok && p.ExclusiveFor(qk) {
			return true
		}
	}
	return false
}

// MatchName is a convenience wrapper for a single-segment name match query.
func (e *Executor) MatchName(ctx context.Context, ns symbol.Namespace, kind symbol.Kind, name string, params Params) ([]*symbol.Symbol, error) {
	return e.RunNameMatchQuery(ctx, symbol.NewPath(symbol.NewQualifiedName(ns, kind, name)), params)
}

// RunNameMatchQuery resolves the path and returns the symbols matching its
// last segment, in scope precedence order.  No match is an empty result.
func (e *Executor) RunNameMatchQuery(ctx context.Context, path symbol.Path, params Params) (matches []*symbol.Symbol, err error) {
	start := time.Now()
	defer func() { e.metrics.observe(opNameMatch, start, len(matches), err) }()

	if err := validatePath("RunNameMatchQuery", path, false); err != nil {
		return nil, err
	}
	if !e.allowResolve {
		e.logger.Debug().Msgf("resolve disabled: %v", path)
		return nil, nil
	}

	matches, err = e.resolvePath(ctx, path, params)
	if err != nil {
		return nil, err
	}
	if e.customizer != nil {
		matches = e.customizer.CustomizeMatches(e.request(path.Last(), params.StrictScope), matches)
	}
	e.logger.Debug().Msgf("name match %v: %d result(s)", path, len(matches))
	return matches, nil
}

// ListSymbols lists the symbols of a kind in the top-level scope.
func (e *Executor) ListSymbols(ctx context.Context, ns symbol.Namespace, kind symbol.Kind, expandPatterns bool, params Params) (symbols []*symbol.Symbol, err error) {
	start := time.Now()
	defer func() { e.metrics.observe(opList, start, len(symbols), err) }()

	if err := validateKind("ListSymbols", ns, kind); err != nil {
		return nil, err
	}
	contributors := scope.Compose(params.Scope, e.ambient, params.StrictScope)
	return e.list(ctx, contributors, symbol.QualifiedKind{Namespace: ns, Kind: kind}, expandPatterns, params)
}

// RunListSymbolsQuery resolves the path and lists the symbols of a kind in
// the scope of its matches.
func (e *Executor) RunListSymbolsQuery(ctx context.Context, path symbol.Path, ns symbol.Namespace, kind symbol.Kind, expandPatterns bool, params Params) (symbols []*symbol.Symbol, err error) {
	start := time.Now()
	defer func() { e.metrics.observe(opList, start, len(symbols), err) }()

	if err := validatePath("RunListSymbolsQuery", path, false); err != nil {
		return nil, err
	}
	if err := validateKind("RunListSymbolsQuery", ns, kind); err != nil {
		return nil, err
	}
	parents, err := e.resolvePath(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return e.list(ctx, scope.MemberScopes(parents), symbol.QualifiedKind{Namespace: ns, Kind: kind}, expandPatterns, params)
}

// Complete is a convenience wrapper for a single-segment completion query.
func (e *Executor) Complete(ctx context.Context, ns symbol.Namespace, kind symbol.Kind, name string, position int, params Params) ([]symbol.CompletionItem, error) {
	return e.RunCodeCompletionQuery(ctx, symbol.NewPath(symbol.NewQualifiedName(ns, kind, name)), position, params)
}

// RunCodeCompletionQuery proposes names for the last segment of the path,
// given the text up to position.  Only ExcludeVirtual and Scope of params are
// honoured.
func (e *Executor) RunCodeCompletionQuery(ctx context.Context, path symbol.Path, position int, params Params) (items []symbol.CompletionItem, err error) {
	start := time.Now()
	defer func() { e.metrics.observe(opCompletion, start, len(items), err) }()

	if err := validatePath("RunCodeCompletionQuery", path, true); err != nil {
		return nil, err
	}
	last := path.Last()
	if position < 0 || position > len(last.Name) {
		return nil, invalidArgument("RunCodeCompletionQuery: position %d out of range [0, %d] for %q", position, len(last.Name), last.Name)
	}
	params = params.forCompletion()

	contributors := scope.Compose(params.Scope, e.ambient, false)
	if len(path) > 1 {
		parents, err := e.resolvePath(ctx, path.Parent(), params)
		if err != nil {
			return nil, err
		}
		contributors = scope.MemberScopes(parents)
	}

	items, err = e.complete(ctx, contributors, last, position, params)
	if err != nil {
		return nil, err
	}
	if e.customizer != nil {
		items = e.customizer.CustomizeCompletions(e.request(last, false), items)
	}
	return items, nil
}

func (e *Executor) request(qn symbol.QualifiedName, strict bool) customizer.Request {
	return customizer.Request{Query: qn, Strict: strict, Context: e.context.Clone()}
}

// resolvePath matches every segment of the path, each one in the members of
// the previous segment's matches.
func (e *Executor) resolvePath(ctx context.Context, path symbol.Path, params Params) ([]*symbol.Symbol, error) {
	contributors := scope.Compose(params.Scope, e.ambient, params.StrictScope)
	var matches []*symbol.Symbol
	for i, qn := range path {
		if i > 0 {
			contributors = scope.MemberScopes(matches)
			if len(contributors) == 0 {
				return nil, nil
			}
		}
		m := newMatcher(e.logger, e.names, contributors)
		matches = nil
		for _, c := range contributors {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			p, ok := scope.AsNameProvider(c)
			if !ok {
				continue
			}
			matches = append(matches, p.MatchSymbols(qn, m)...)
		}
		matches = e.filter(matches, params)
	}
	return matches, nil
}

func (e *Executor) list(ctx context.Context, contributors []scope.Contributor, kind symbol.QualifiedKind, expandPatterns bool, params Params) ([]*symbol.Symbol, error) {
	var m *matcher
	var symbols []*symbol.Symbol
	for _, c := range contributors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, ok := scope.AsListProvider(c)
		if !ok {
			continue
		}
		for _, sym := range p.ListSymbols(kind) {
			if !expandPatterns || !sym.IsPattern() {
				symbols = append(symbols, sym)
				continue
			}
			if m == nil {
				m = newMatcher(e.logger, e.names, contributors)
			}
			symbols = append(symbols, e.expand(sym, m)...)
		}
	}
	symbols = e.filter(symbols, params)
	if e.customizer != nil {
		symbols = e.customizer.CustomizeMatches(e.request(symbol.QualifiedName{Namespace: kind.Namespace, Kind: kind.Kind}, params.StrictScope), symbols)
	}
	e.logger.Debug().Msgf("list %v: %d result(s)", kind, len(symbols))
	return symbols, nil
}

// expand replaces a pattern symbol by one symbol per concrete name.  Patterns
// that cannot be expanded are returned unchanged.
func (e *Executor) expand(sym *symbol.Symbol, m *matcher) []*symbol.Symbol {
	p := compilePattern(e.logger, sym.Pattern)
	if p == nil {
		return []*symbol.Symbol{sym}
	}
	names, ok := p.Expand(m.resolve, e.expansionLimit)
	if !ok {
		if p.Expandable() {
			e.logger.Debug().Msgf("pattern %q not expanded (unresolved reference or over %d names)", sym.Pattern, e.expansionLimit)
		}
		return []*symbol.Symbol{sym}
	}
	expanded := make([]*symbol.Symbol, len(names))
	for i, name := range names {
		expanded[i] = sym.WithName(name)
	}
	return expanded
}

func (e *Executor) complete(ctx context.Context, contributors []scope.Contributor, last symbol.QualifiedName, position int, params Params) ([]symbol.CompletionItem, error) {
	prefix := strings.ToLower(last.Name[:position])
	kind := last.QualifiedKind()

	var m *matcher
	var items []symbol.CompletionItem
	seen := make(map[string]bool)
	add := func(name string, sym *symbol.Symbol) {
		for _, variant := range e.names.Names(symbol.QualifiedName{Namespace: kind.Namespace, Kind: kind.Kind, Name: name}, naming.CompletionVariants) {
			if seen[variant] || !strings.HasPrefix(strings.ToLower(variant), prefix) {
				continue
			}
			seen[variant] = true
			items = append(items, symbol.CompletionItem{Name: variant, Priority: sym.Priority, Symbol: sym})
		}
	}

	for _, c := range contributors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p, ok := scope.AsListProvider(c); ok {
			for _, sym := range e.filter(p.ListSymbols(kind), params) {
				if !sym.IsPattern() {
					add(sym.Name, sym)
					continue
				}
				if m == nil {
					m = newMatcher(e.logger, e.names, contributors)
				}
				for _, expanded := range e.expand(sym, m) {
					if !expanded.IsPattern() {
						add(expanded.Name, expanded)
					}
				}
			}
		}
		if p, ok := scope.AsCompletionProvider(c); ok {
			for _, item := range p.CompletionItems(last, position) {
				if item.Symbol != nil && !e.keep(item.Symbol, params) {
					continue
				}
				items = append(items, item)
			}
		}
	}
	e.logger.Debug().Msgf("complete %v@%d: %d result(s)", last, position, len(items))
	return items, nil
}

func (e *Executor) filter(symbols []*symbol.Symbol, params Params) []*symbol.Symbol {
	return symbol.Filter(symbols, func(sym *symbol.Symbol) bool {
		return e.keep(sym, params)
	})
}

func (e *Executor) keep(sym *symbol.Symbol, params Params) bool {
	if !sym.VisibleIn(e.context.Framework()) {
		return false
	}
	if params.ExcludeVirtual && sym.Virtual {
		return false
	}
	if sym.Abstract && !params.IncludeAbstract {
		return false
	}
	return true
}

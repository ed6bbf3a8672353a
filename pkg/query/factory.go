package query

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/stackb/websymbols/pkg/customizer"
	"github.com/stackb/websymbols/pkg/naming"
	"github.com/stackb/websymbols/pkg/scope"
	"github.com/stackb/websymbols/pkg/symbol"
)

// Location identifies where a query is issued from.
type Location struct {
	// File is the slash-separated path of the file being edited.
	File string
	// Framework is the framework in effect at the location, if known.
	Framework string
}

// String implements fmt.Stringer
func (l Location) String() string {
	if l.Framework == "" {
		return l.File
	}
	return fmt.Sprintf("%s[%s]", l.File, l.Framework)
}

// Configurator contributes the executor configuration of a location.  The
// contributions of all configurators are concatenated in order.
type Configurator interface {
	// Name identifies the configurator in logs.
	Name() string
	// Scopes returns ambient contributors in precedence order.
	Scopes(loc Location) []scope.Contributor
	// NameConversionRules returns rules layered in order.
	NameConversionRules(loc Location) []naming.Rules
	// Context returns context entries; later configurators override
	// earlier ones.
	Context(loc Location) symbol.Context
	// Customizers returns result customizers applied in order.
	Customizers(loc Location) []customizer.Customizer
}

// Factory creates and caches executors per location.
type Factory struct {
	logger        zerolog.Logger
	configurators []Configurator
	metrics       *Metrics
	limit         int

	tracker  atomic.Int64
	pointers *pointerRegistry

	mu    sync.Mutex
	cache map[factoryKey]*Executor
}

type factoryKey struct {
	loc          Location
	allowResolve bool
}

func (k factoryKey) String() string {
	return fmt.Sprintf("%v#%t", k.loc, k.allowResolve)
}

// NewFactory constructs a new Factory.  metrics may be nil.
func NewFactory(logger zerolog.Logger, metrics *Metrics, configurators ...Configurator) *Factory {
	return &Factory{
		logger:        logger,
		configurators: configurators,
		metrics:       metrics,
		pointers:      newPointerRegistry(),
		cache:         make(map[factoryKey]*Executor),
	}
}

// SetExpansionLimit bounds pattern expansion for executors created after the
// call.
func (f *Factory) SetExpansionLimit(limit int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limit = limit
}

// Executor returns the executor for the given location, creating it if
// necessary.
func (f *Factory) Executor(loc Location, allowResolve bool) *Executor {
	key := factoryKey{loc: loc, allowResolve: allowResolve}

	f.mu.Lock()
	defer f.mu.Unlock()

	if e, ok := f.cache[key]; ok {
		return e
	}
	e := f.create(key)
	f.cache[key] = e
	return e
}

func (f *Factory) create(key factoryKey) *Executor {
	loc := key.loc
	var scopes []scope.Contributor
	var rules []naming.Rules
	var customizers []customizer.Customizer
	ctx := symbol.Context{}
	for _, c := range f.configurators {
		scopes = append(scopes, c.Scopes(loc)...)
		rules = append(rules, c.NameConversionRules(loc)...)
		customizers = append(customizers, c.Customizers(loc)...)
		ctx = ctx.Merge(c.Context(loc))
	}
	if loc.Framework != "" {
		ctx[symbol.KindFramework] = loc.Framework
	}

	options := []Option{
		WithLogger(f.logger),
		WithScopes(scopes...),
		WithNamesProvider(naming.NewProvider(rules...)),
		WithContext(ctx),
		WithAllowResolve(key.allowResolve),
		WithMetrics(f.metrics),
		withTracker(&f.tracker),
		withPointers(f.pointers, key.String()),
	}
	if f.limit > 0 {
		options = append(options, WithExpansionLimit(f.limit))
	}
	if len(customizers) > 0 {
		options = append(options, WithCustomizer(customizer.NewChain(customizers...)))
	}
	e := NewExecutor(options...)
	f.logger.Debug().Str("executor", e.ID().String()).Msgf("created executor for %v (%d scopes, %d rules)", loc, len(scopes), len(rules))
	return e
}

// Invalidate drops cached executors.  Pointers to them stop dereferencing and
// the modification count of every executor of the factory increases.
func (f *Factory) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracker.Add(1)
	f.pointers.invalidateAll()
	clear(f.cache)
	f.logger.Debug().Msg("invalidated executors")
}

// ModificationCount returns the factory's own stamp.
func (f *Factory) ModificationCount() int64 {
	return f.tracker.Load()
}

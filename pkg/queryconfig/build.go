package queryconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stackb/websymbols/pkg/customizer"
	"github.com/stackb/websymbols/pkg/index"
	"github.com/stackb/websymbols/pkg/naming"
	"github.com/stackb/websymbols/pkg/query"
	"github.com/stackb/websymbols/pkg/scope"
	"github.com/stackb/websymbols/pkg/starlarkeval"
	"github.com/stackb/websymbols/pkg/symbol"
)

// Builder turns a Config into a query.Factory.
type Builder struct {
	Logger zerolog.Logger
	// Metrics is passed to the factory.  May be nil.
	Metrics *query.Metrics
	// Contributors resolves scope names not declared in the file.  Defaults
	// to scope.GlobalRegistry().
	Contributors *scope.Registry
	// Customizers resolves customizer names.  Defaults to
	// customizer.GlobalRegistry().
	Customizers *customizer.Registry
}

// Build validates the configuration, loads every index concurrently and
// returns a factory configured by it.
func (b *Builder) Build(ctx context.Context, cfg *Config) (*query.Factory, error) {
	contributors := b.Contributors
	if contributors == nil {
		contributors = scope.GlobalRegistry()
	}
	customizers := b.Customizers
	if customizers == nil {
		customizers = customizer.GlobalRegistry()
	}
	if err := cfg.Validate(contributors, customizers); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	scopes, err := b.loadScopes(ctx, cfg)
	if err != nil {
		return nil, err
	}
	lookup := func(names []string) ([]scope.Contributor, error) {
		var out []scope.Contributor
		for _, name := range names {
			if s, ok := scopes[name]; ok {
				out = append(out, s)
				continue
			}
			found, err := contributors.GetNamedContributors([]string{name})
			if err != nil {
				return nil, err
			}
			out = append(out, found...)
		}
		return out, nil
	}

	c := &configurator{}
	if c.ambient, err = lookup(cfg.Ambient); err != nil {
		return nil, err
	}
	if c.rules, err = toRules(cfg.Rules); err != nil {
		return nil, err
	}
	for _, p := range cfg.Priorities {
		rule, err := p.toCustomizer()
		if err != nil {
			return nil, err
		}
		c.customizers = append(c.customizers, rule)
	}
	for _, e := range cfg.Exclude {
		rule, err := e.toExcludeRule()
		if err != nil {
			return nil, err
		}
		c.customizers = append(c.customizers, rule)
	}
	named, err := customizers.GetNamedCustomizers(cfg.Customizers)
	if err != nil {
		return nil, err
	}
	c.customizers = append(c.customizers, named...)

	for _, f := range cfg.Frameworks {
		binding := &frameworkBinding{
			framework: f.Framework,
			when:      f.When,
			context:   symbol.Context(f.Context),
		}
		if binding.scopes, err = lookup(f.Scopes); err != nil {
			return nil, err
		}
		if binding.rules, err = toRules(f.Rules); err != nil {
			return nil, err
		}
		if binding.customizers, err = customizers.GetNamedCustomizers(f.Customizers); err != nil {
			return nil, err
		}
		c.frameworks = append(c.frameworks, binding)
	}

	factory := query.NewFactory(b.Logger, b.Metrics, c)
	if cfg.ExpansionLimit > 0 {
		factory.SetExpansionLimit(cfg.ExpansionLimit)
	}
	b.Logger.Debug().Msgf("built factory: %d scopes, %d frameworks", len(scopes), len(c.frameworks))
	return factory, nil
}

// loadScopes reads the index files of the configuration concurrently.
func (b *Builder) loadScopes(ctx context.Context, cfg *Config) (map[string]*scope.TrieScope, error) {
	loaded := make([]*scope.TrieScope, len(cfg.Scopes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sc := range cfg.Scopes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := LoadScope(sc.Name, cfg.resolvePath(sc.Index), b.Logger)
			if err != nil {
				return fmt.Errorf("scope %q: %w", sc.Name, err)
			}
			for _, text := range sc.Exclusive {
				kind, err := symbol.ParseQualifiedKind(text)
				if err != nil {
					return fmt.Errorf("scope %q: %w", sc.Name, err)
				}
				s.SetExclusive(kind)
			}
			loaded[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scopes := make(map[string]*scope.TrieScope, len(loaded))
	for _, s := range loaded {
		scopes[s.Name()] = s
	}
	return scopes, nil
}

// LoadScope reads an index file into a new scope of the given name.  Files
// ending in ".star" are evaluated; others are read by index.ReadFile.
func LoadScope(name, filename string, logger zerolog.Logger) (*scope.TrieScope, error) {
	var spec *index.IndexSpec
	var err error
	if filepath.Ext(filename) == ".star" {
		spec, err = starlarkeval.EvalFile(filename, func(format string, args ...interface{}) {
			logger.Debug().Str("file", filename).Msgf(format, args...)
		})
	} else {
		spec, err = index.ReadFile(filename)
	}
	if err != nil {
		return nil, err
	}
	spec.Name = name
	s, err := index.NewScope(spec)
	if err != nil {
		return nil, err
	}
	logger.Debug().Msgf("loaded scope %s from %s (%d symbols)", name, filename, s.Len())
	return s, nil
}

func toRules(configs []RuleConfig) ([]naming.Rules, error) {
	rules := make([]naming.Rules, 0, len(configs))
	for _, rc := range configs {
		r, err := rc.toRules()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

type frameworkBinding struct {
	framework   string
	when        []string
	scopes      []scope.Contributor
	context     symbol.Context
	rules       []naming.Rules
	customizers []customizer.Customizer
}

func (f *frameworkBinding) matches(loc query.Location) bool {
	if loc.Framework != "" {
		return loc.Framework == f.framework
	}
	for _, glob := range f.when {
		if ok, _ := doublestar.Match(glob, filepath.ToSlash(loc.File)); ok {
			return true
		}
	}
	return false
}

// configurator implements query.Configurator for a built configuration.
type configurator struct {
	ambient     []scope.Contributor
	rules       []naming.Rules
	customizers []customizer.Customizer
	frameworks  []*frameworkBinding
}

// Name implements part of the query.Configurator interface.
func (c *configurator) Name() string {
	return "queryconfig"
}

func (c *configurator) bindings(loc query.Location) []*frameworkBinding {
	var out []*frameworkBinding
	for _, f := range c.frameworks {
		if f.matches(loc) {
			out = append(out, f)
		}
	}
	return out
}

// Scopes implements part of the query.Configurator interface.  Framework
// scopes precede the ambient ones.
func (c *configurator) Scopes(loc query.Location) []scope.Contributor {
	var scopes []scope.Contributor
	for _, f := range c.bindings(loc) {
		scopes = append(scopes, f.scopes...)
	}
	return append(scopes, c.ambient...)
}

// NameConversionRules implements part of the query.Configurator interface.
func (c *configurator) NameConversionRules(loc query.Location) []naming.Rules {
	rules := append([]naming.Rules(nil), c.rules...)
	for _, f := range c.bindings(loc) {
		rules = append(rules, f.rules...)
	}
	return rules
}

// Context implements part of the query.Configurator interface.  The first
// bound framework names the framework of the context.
func (c *configurator) Context(loc query.Location) symbol.Context {
	ctx := symbol.Context{}
	bindings := c.bindings(loc)
	for _, f := range bindings {
		ctx = ctx.Merge(f.context)
	}
	if len(bindings) > 0 {
		ctx[symbol.KindFramework] = bindings[0].framework
	}
	return ctx
}

// Customizers implements part of the query.Configurator interface.
func (c *configurator) Customizers(loc query.Location) []customizer.Customizer {
	customizers := append([]customizer.Customizer(nil), c.customizers...)
	for _, f := range c.bindings(loc) {
		customizers = append(customizers, f.customizers...)
	}
	return customizers
}

// Package queryconfig reads the YAML configuration of a symbol query
// factory: the symbol indexes, which of them apply where, name conversion
// rules and result customizers.
package queryconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/stackb/websymbols/pkg/customizer"
	"github.com/stackb/websymbols/pkg/naming"
	"github.com/stackb/websymbols/pkg/scope"
	"github.com/stackb/websymbols/pkg/symbol"
)

// Config is the root of the configuration file.
type Config struct {
	// Scopes are the symbol indexes to load.
	Scopes []ScopeConfig `yaml:"scopes"`
	// Ambient names the scopes that apply at every location, in precedence
	// order.
	Ambient []string `yaml:"ambient"`
	// Frameworks bind scopes and settings to locations.
	Frameworks []FrameworkConfig `yaml:"frameworks"`
	// Rules are name conversion rules that apply everywhere.
	Rules []RuleConfig `yaml:"rules"`
	// Priorities reprioritize matching symbols.
	Priorities []PriorityConfig `yaml:"priorities"`
	// Exclude drops matching symbols.
	Exclude []SelectorConfig `yaml:"exclude"`
	// Customizers names registered customizers applied after the priority
	// and exclude rules.
	Customizers []string `yaml:"customizers"`
	// ExpansionLimit bounds pattern expansion.  Zero means the default.
	ExpansionLimit int `yaml:"expansion_limit"`

	// dir is the directory relative paths are resolved against.
	dir string
}

// ScopeConfig names an index file.
type ScopeConfig struct {
	Name string `yaml:"name"`
	// Index is a .json, .pb or .star file.
	Index string `yaml:"index"`
	// Exclusive lists additional "{NAMESPACE}/{KIND}" pairs the scope owns.
	Exclusive []string `yaml:"exclusive"`
}

// FrameworkConfig applies settings to locations of a framework.  A location
// is bound when it names the framework, or when its file matches one of the
// When globs.
type FrameworkConfig struct {
	Framework   string            `yaml:"framework"`
	When        []string          `yaml:"when"`
	Scopes      []string          `yaml:"scopes"`
	Context     map[string]string `yaml:"context"`
	Rules       []RuleConfig      `yaml:"rules"`
	Customizers []string          `yaml:"customizers"`
}

// RuleConfig binds name converters to a kind.
type RuleConfig struct {
	// Kind is "{NAMESPACE}/{KIND}".
	Kind       string   `yaml:"kind"`
	Canonical  string   `yaml:"canonical"`
	Match      []string `yaml:"match"`
	Completion []string `yaml:"completion"`
}

// SelectorConfig selects symbols for priority and exclude rules.
type SelectorConfig struct {
	Glob      string `yaml:"glob"`
	Kind      string `yaml:"kind"`
	Origin    string `yaml:"origin"`
	Framework string `yaml:"framework"`
}

// PriorityConfig assigns a priority to selected symbols.
type PriorityConfig struct {
	SelectorConfig `yaml:",inline"`
	Priority       string `yaml:"priority"`
}

// LoadFile reads the configuration file.  Relative index paths are resolved
// against the directory of the file.
func LoadFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	cfg.dir = filepath.Dir(filename)
	return cfg, nil
}

// Parse decodes a configuration.  Unknown keys are an error.
func Parse(in io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) resolvePath(filename string) string {
	if filepath.IsAbs(filename) || c.dir == "" {
		return filename
	}
	return filepath.Join(c.dir, filename)
}

// Validate checks the configuration.  Scope names may refer to scopes
// declared in the file or to contributors of the given registry, which may
// be nil.
func (c *Config) Validate(contributors *scope.Registry, customizers *customizer.Registry) error {
	var errs []error

	declared := make(map[string]bool)
	for i, s := range c.Scopes {
		switch {
		case s.Name == "":
			errs = append(errs, fmt.Errorf("scopes[%d]: missing name", i))
		case declared[s.Name]:
			errs = append(errs, fmt.Errorf("scopes[%d]: duplicate scope %q", i, s.Name))
		}
		declared[s.Name] = true
		if s.Index == "" {
			errs = append(errs, fmt.Errorf("scopes[%d]: missing index", i))
		}
		for _, kind := range s.Exclusive {
			if _, err := symbol.ParseQualifiedKind(kind); err != nil {
				errs = append(errs, fmt.Errorf("scopes[%d]: %w", i, err))
			}
		}
	}

	checkScopes := func(where string, names []string) {
		for _, name := range names {
			if declared[name] {
				continue
			}
			if contributors != nil {
				if _, ok := contributors.GetContributor(name); ok {
					continue
				}
			}
			errs = append(errs, fmt.Errorf("%s: unknown scope %q", where, name))
		}
	}
	checkCustomizers := func(where string, names []string) {
		if customizers == nil {
			return
		}
		if _, err := customizers.GetNamedCustomizers(names); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}
	checkRules := func(where string, rules []RuleConfig) {
		for i, r := range rules {
			if _, err := r.toRules(); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", where, i, err))
			}
		}
	}

	checkScopes("ambient", c.Ambient)
	checkRules("rules", c.Rules)
	checkCustomizers("customizers", c.Customizers)
	for i, p := range c.Priorities {
		if _, err := p.toCustomizer(); err != nil {
			errs = append(errs, fmt.Errorf("priorities[%d]: %w", i, err))
		}
	}
	for i, e := range c.Exclude {
		if _, err := e.toExcludeRule(); err != nil {
			errs = append(errs, fmt.Errorf("exclude[%d]: %w", i, err))
		}
	}
	for i, f := range c.Frameworks {
		where := fmt.Sprintf("frameworks[%d]", i)
		if f.Framework == "" {
			errs = append(errs, fmt.Errorf("%s: missing framework", where))
		}
		for _, glob := range f.When {
			if !doublestar.ValidatePattern(glob) {
				errs = append(errs, fmt.Errorf("%s: invalid glob %q", where, glob))
			}
		}
		checkScopes(where, f.Scopes)
		checkRules(where+".rules", f.Rules)
		checkCustomizers(where, f.Customizers)
	}
	if c.ExpansionLimit < 0 {
		errs = append(errs, fmt.Errorf("expansion_limit: must not be negative"))
	}

	return errors.Join(errs...)
}

// FrameworkNames returns the sorted list of configured framework names.
func (c *Config) FrameworkNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, f := range c.Frameworks {
		if !seen[f.Framework] {
			seen[f.Framework] = true
			names = append(names, f.Framework)
		}
	}
	sort.Strings(names)
	return names
}

func (r RuleConfig) toRules() (naming.Rules, error) {
	kind, err := symbol.ParseQualifiedKind(r.Kind)
	if err != nil {
		return naming.Rules{}, err
	}
	return naming.NewRules(kind, r.Canonical, r.Match, r.Completion)
}

func (s SelectorConfig) toSelector() (customizer.Selector, error) {
	sel := customizer.Selector{Glob: s.Glob, Origin: s.Origin, Framework: s.Framework}
	if s.Kind != "" {
		kind, err := symbol.ParseQualifiedKind(s.Kind)
		if err != nil {
			return sel, err
		}
		sel.Kind = kind
	}
	return sel, nil
}

func (s SelectorConfig) toExcludeRule() (*customizer.ExcludeRule, error) {
	sel, err := s.toSelector()
	if err != nil {
		return nil, err
	}
	return customizer.NewExcludeRule(sel)
}

func (p PriorityConfig) toCustomizer() (*customizer.PriorityRule, error) {
	sel, err := p.toSelector()
	if err != nil {
		return nil, err
	}
	priority, err := symbol.ParsePriority(p.Priority)
	if err != nil {
		return nil, err
	}
	return customizer.NewPriorityRule(sel, priority)
}

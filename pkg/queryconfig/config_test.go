package queryconfig

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/stackb/websymbols/pkg/customizer"
	"github.com/stackb/websymbols/pkg/index"
	"github.com/stackb/websymbols/pkg/query"
	"github.com/stackb/websymbols/pkg/scope"
	"github.com/stackb/websymbols/pkg/symbol"
	"github.com/stackb/websymbols/pkg/testutil"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
scopes:
  - name: html
    index: html.json
    exclusive: [html/elements]
ambient: [html]
frameworks:
  - framework: vue
    when: ["**/*.vue"]
    scopes: [vue]
    context: {lang: ts}
rules:
  - kind: html/elements
    canonical: lowercase
priorities:
  - glob: "v-*"
    priority: high
exclude:
  - origin: legacy
customizers: [deduplicate]
expansion_limit: 10
`))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Scopes:  []ScopeConfig{{Name: "html", Index: "html.json", Exclusive: []string{"html/elements"}}},
		Ambient: []string{"html"},
		Frameworks: []FrameworkConfig{{
			Framework: "vue",
			When:      []string{"**/*.vue"},
			Scopes:    []string{"vue"},
			Context:   map[string]string{"lang": "ts"},
		}},
		Rules:          []RuleConfig{{Kind: "html/elements", Canonical: "lowercase"}},
		Priorities:     []PriorityConfig{{SelectorConfig: SelectorConfig{Glob: "v-*"}, Priority: "high"}},
		Exclude:        []SelectorConfig{{Origin: "legacy"}},
		Customizers:    []string{"deduplicate"},
		ExpansionLimit: 10,
	}
	if diff := cmp.Diff(want, cfg, cmp.AllowUnexported(Config{})); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"vue"}, cfg.FrameworkNames()); diff != "" {
		t.Errorf("framework names (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	for name, src := range map[string]string{
		"unknown key": "scopes: []\nbogus: 1\n",
		"wrong type":  "ambient: {a: b}\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(src)); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := Parse(strings.NewReader("")); err != nil {
		t.Errorf("empty config: %v", err)
	}
}

func TestValidate(t *testing.T) {
	registered := scope.NewRegistry()
	if err := registered.AddContributor(scope.NewTrieScope("builtin")); err != nil {
		t.Fatal(err)
	}
	customizers := customizer.NewRegistry()
	if err := customizers.PutCustomizer("dedupe", customizer.Deduplicate{}); err != nil {
		t.Fatal(err)
	}

	for name, tc := range map[string]struct {
		cfg  Config
		want string
	}{
		"valid": {
			cfg: Config{
				Scopes:      []ScopeConfig{{Name: "html", Index: "html.json"}},
				Ambient:     []string{"html", "builtin"},
				Customizers: []string{"dedupe"},
			},
		},
		"missing scope name": {
			cfg:  Config{Scopes: []ScopeConfig{{Index: "x.json"}}},
			want: "missing name",
		},
		"duplicate scope": {
			cfg:  Config{Scopes: []ScopeConfig{{Name: "a", Index: "a.json"}, {Name: "a", Index: "b.json"}}},
			want: `duplicate scope "a"`,
		},
		"missing index": {
			cfg:  Config{Scopes: []ScopeConfig{{Name: "a"}}},
			want: "missing index",
		},
		"bad exclusive": {
			cfg:  Config{Scopes: []ScopeConfig{{Name: "a", Index: "a.json", Exclusive: []string{"html"}}}},
			want: "malformed qualified kind",
		},
		"unknown ambient scope": {
			cfg:  Config{Ambient: []string{"nope"}},
			want: `ambient: unknown scope "nope"`,
		},
		"unknown converter": {
			cfg:  Config{Rules: []RuleConfig{{Kind: "html/elements", Canonical: "shouting"}}},
			want: "unknown name converter",
		},
		"unknown customizer": {
			cfg:  Config{Customizers: []string{"nope"}},
			want: "Customizer not found",
		},
		"bad priority": {
			cfg:  Config{Priorities: []PriorityConfig{{Priority: "urgent"}}},
			want: "unknown priority",
		},
		"bad exclude glob": {
			cfg:  Config{Exclude: []SelectorConfig{{Glob: "[a-"}}},
			want: "invalid glob",
		},
		"framework errors": {
			cfg:  Config{Frameworks: []FrameworkConfig{{When: []string{"{a"}, Scopes: []string{"nope"}}}},
			want: "frameworks[0]: missing framework",
		},
		"negative limit": {
			cfg:  Config{ExpansionLimit: -1},
			want: "expansion_limit",
		},
	} {
		t.Run(name, func(t *testing.T) {
			testutil.ExpectErrorContains(t, tc.want, tc.cfg.Validate(registered, customizers))
		})
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	if err := index.WriteFile(filepath.Join(dir, "html.json"), &index.IndexSpec{
		Symbols: []*index.SymbolSpec{
			{Namespace: "html", Kind: "elements", Name: "div"},
			{Namespace: "html", Kind: "elements", Name: "span"},
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := index.WriteFile(filepath.Join(dir, "legacy.pb"), &index.IndexSpec{
		Symbols: []*index.SymbolSpec{{Namespace: "html", Kind: "elements", Name: "marquee"}},
	}); err != nil {
		t.Fatal(err)
	}
	testutil.MustWriteTestFiles(t, dir, []testutil.FileSpec{
		{
			Path: "vue.star",
			Content: `
register(symbol("html", "elements", "transition", framework = "vue"))
register(symbol("html", "elements", "v-slot"))
`,
		},
		{
			Path: "config.yaml",
			Content: `
scopes:
  - name: html
    index: html.json
  - name: legacy
    index: legacy.pb
  - name: vue
    index: vue.star
    exclusive: [html/elements]
ambient: [html, legacy]
frameworks:
  - framework: vue
    when: ["**/*.vue"]
    scopes: [vue]
    context: {lang: ts}
rules:
  - kind: html/elements
    canonical: lowercase
priorities:
  - glob: "v-*"
    priority: high
exclude:
  - origin: legacy
customizers: [deduplicate]
`,
		},
	})

	cfg, err := LoadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	b := &Builder{Logger: testutil.NewTestLogger(t), Contributors: scope.NewRegistry()}
	factory, err := b.Build(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	t.Run("plain html file", func(t *testing.T) {
		e := factory.Executor(query.Location{File: "web/index.html"}, true)
		if e.Framework() != "" {
			t.Errorf("unexpected framework %q", e.Framework())
		}
		got, err := e.MatchName(ctx, symbol.NamespaceHTML, symbol.KindElements, "DIV", query.Params{})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Origin != "html" {
			t.Errorf("MatchName(DIV) = %v", got)
		}
		list, err := e.ListSymbols(ctx, symbol.NamespaceHTML, symbol.KindElements, false, query.Params{})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"div", "span"}, names(list)); diff != "" {
			t.Errorf("list (-want +got):\n%s", diff)
		}
		if e.HasExclusiveScopeFor(symbol.NamespaceHTML, symbol.KindElements, nil) {
			t.Error("html scope is not exclusive")
		}
	})

	t.Run("vue file", func(t *testing.T) {
		e := factory.Executor(query.Location{File: "src/App.vue"}, true)
		if diff := cmp.Diff(symbol.Context{"lang": "ts", symbol.KindFramework: "vue"}, e.Context()); diff != "" {
			t.Errorf("context (-want +got):\n%s", diff)
		}
		list, err := e.ListSymbols(ctx, symbol.NamespaceHTML, symbol.KindElements, false, query.Params{})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"transition", "v-slot", "div", "span"}, names(list)); diff != "" {
			t.Errorf("list (-want +got):\n%s", diff)
		}
		if list[1].Priority != symbol.PriorityHigh {
			t.Errorf("v-slot priority = %v", list[1].Priority)
		}
		if !e.HasExclusiveScopeFor(symbol.NamespaceHTML, symbol.KindElements, nil) {
			t.Error("vue scope should be exclusive")
		}
	})
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()
	for name, tc := range map[string]struct {
		cfg  *Config
		want string
	}{
		"invalid": {
			cfg:  &Config{Ambient: []string{"nope"}},
			want: "invalid config",
		},
		"missing index file": {
			cfg:  &Config{Scopes: []ScopeConfig{{Name: "x", Index: filepath.Join(dir, "missing.json")}}},
			want: `scope "x"`,
		},
		"bad starlark": {
			cfg: func() *Config {
				filenames := testutil.MustWriteTestFiles(t, dir, []testutil.FileSpec{{Path: "bad.star", Content: `register(1)`}})
				return &Config{Scopes: []ScopeConfig{{Name: "bad", Index: filenames[0]}}}
			}(),
			want: "want symbol",
		},
	} {
		t.Run(name, func(t *testing.T) {
			b := &Builder{Logger: zerolog.Nop(), Contributors: scope.NewRegistry(), Customizers: customizer.NewRegistry()}
			_, err := b.Build(context.Background(), tc.cfg)
			testutil.ExpectErrorContains(t, tc.want, err)
		})
	}
}

func names(symbols []*symbol.Symbol) []string {
	var out []string
	for _, sym := range symbols {
		out = append(out, sym.Name)
	}
	return out
}

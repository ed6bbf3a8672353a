package naming

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stackb/websymbols/pkg/symbol"
)

var elements = symbol.QualifiedKind{Namespace: symbol.NamespaceHTML, Kind: symbol.KindElements}

func mustRules(t *testing.T, canonical string, match, completion []string) Rules {
	t.Helper()
	r, err := NewRules(elements, canonical, match, completion)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestConverters(t *testing.T) {
	for name, tc := range map[string]struct {
		converter string
		in        string
		want      string
	}{
		"as-is":              {converter: AsIs, in: "MyButton", want: "MyButton"},
		"lowercase":          {converter: LowerCase, in: "MyButton", want: "mybutton"},
		"uppercase":          {converter: UpperCase, in: "my-button", want: "MY-BUTTON"},
		"kebab from pascal":  {converter: KebabCase, in: "MyButton", want: "my-button"},
		"kebab from acronym": {converter: KebabCase, in: "HTMLElement", want: "html-element"},
		"camel from kebab":   {converter: CamelCase, in: "my-fancy-button", want: "myFancyButton"},
		"pascal from kebab":  {converter: PascalCase, in: "my-button", want: "MyButton"},
		"snake from camel":   {converter: SnakeCase, in: "myButton", want: "my_button"},
		"kebab degenerate":   {converter: KebabCase, in: "", want: ""},
		"kebab leading dash": {converter: KebabCase, in: "-webkit-box", want: "webkit-box"},
	} {
		t.Run(name, func(t *testing.T) {
			c, err := LookupConverter(tc.converter)
			if err != nil {
				t.Fatal(err)
			}
			if got := c(tc.in); got != tc.want {
				t.Errorf("%s(%q): want %q, got %q", tc.converter, tc.in, tc.want, got)
			}
		})
	}
}

func TestLookupConverterUnknown(t *testing.T) {
	_, err := LookupConverter("shouting")
	want := `unknown name converter "shouting" (want one of as-is, camel-case, kebab-case, lowercase, pascal-case, snake-case, uppercase)`
	if err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff(want, err.Error()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestProviderNames(t *testing.T) {
	for name, tc := range map[string]struct {
		rules  []Rules
		name   string
		target Target
		want   []string
	}{
		"no rules": {
			name:   "MyButton",
			target: Match,
			want:   []string{"MyButton"},
		},
		"canonical": {
			rules:  []Rules{mustRules(t, KebabCase, nil, nil)},
			name:   "MyButton",
			target: Canonical,
			want:   []string{"my-button"},
		},
		"match defaults to canonical": {
			rules:  []Rules{mustRules(t, KebabCase, nil, nil)},
			name:   "MyButton",
			target: Match,
			want:   []string{"my-button"},
		},
		"completion variants deduplicated": {
			rules:  []Rules{mustRules(t, "", nil, []string{KebabCase, PascalCase, AsIs})},
			name:   "my-button",
			target: CompletionVariants,
			want:   []string{"my-button", "MyButton"},
		},
		"later rules win": {
			rules: []Rules{
				mustRules(t, KebabCase, nil, nil),
				mustRules(t, UpperCase, nil, nil),
			},
			name:   "div",
			target: Canonical,
			want:   []string{"DIV"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			p := NewProvider(tc.rules...)
			got := p.Names(symbol.QualifiedName{Namespace: symbol.NamespaceHTML, Kind: symbol.KindElements, Name: tc.name}, tc.target)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestProviderMatches(t *testing.T) {
	query := symbol.QualifiedName{Namespace: symbol.NamespaceHTML, Kind: symbol.KindElements, Name: "MyButton"}

	plain := NewProvider()
	if plain.Matches(query, "my-button") {
		t.Error("plain provider should compare by equality")
	}
	if !plain.Matches(query, "MyButton") {
		t.Error("plain provider should match equal names")
	}

	kebab := plain.WithRules([]Rules{mustRules(t, KebabCase, nil, nil)})
	if !kebab.Matches(query, "my-button") {
		t.Error("kebab provider should match my-button")
	}
	if plain.HasRules(elements) {
		t.Error("WithRules mutated the receiver")
	}
}

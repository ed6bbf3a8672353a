package scope

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/stackb/websymbols/pkg/symbol"
)

var (
	elements   = symbol.QualifiedKind{Namespace: symbol.NamespaceHTML, Kind: symbol.KindElements}
	attributes = symbol.QualifiedKind{Namespace: symbol.NamespaceHTML, Kind: symbol.KindAttributes}
)

func makeSymbol(kind symbol.QualifiedKind, name, origin string) *symbol.Symbol {
	return symbol.NewSymbol(kind.Namespace, kind.Kind, name, origin)
}

func makePattern(kind symbol.QualifiedKind, pattern, origin string) *symbol.Symbol {
	sym := symbol.NewSymbol(kind.Namespace, kind.Kind, "", origin)
	sym.Pattern = pattern
	return sym
}

func qname(kind symbol.QualifiedKind, name string) symbol.QualifiedName {
	return symbol.QualifiedName{Namespace: kind.Namespace, Kind: kind.Kind, Name: name}
}

// prefixMatcher matches a pattern symbol when the query starts with the
// pattern text, and plain symbols by equality.
type prefixMatcher struct{}

func (prefixMatcher) Exact(symbol.QualifiedKind) bool { return false }

func (prefixMatcher) Match(query symbol.QualifiedName, candidate *symbol.Symbol) bool {
	if candidate.IsPattern() {
		return len(query.Name) >= len(candidate.Pattern) && query.Name[:len(candidate.Pattern)] == candidate.Pattern
	}
	return candidate.Name == query.Name
}

func TestTrieScopeMatchSymbols(t *testing.T) {
	for name, tc := range map[string]struct {
		symbols []*symbol.Symbol
		query   symbol.QualifiedName
		matcher Matcher
		want    []*symbol.Symbol
	}{
		"degenerate": {},
		"miss": {
			query: qname(elements, "div"),
			want:  nil,
		},
		"direct hit": {
			symbols: []*symbol.Symbol{
				makeSymbol(elements, "div", "test"),
			},
			query: qname(elements, "div"),
			want: []*symbol.Symbol{
				makeSymbol(elements, "div", "test"),
			},
		},
		"kind mismatch": {
			symbols: []*symbol.Symbol{
				makeSymbol(attributes, "div", "test"),
			},
			query: qname(elements, "div"),
			want:  nil,
		},
		"insertion order kept": {
			symbols: []*symbol.Symbol{
				makeSymbol(elements, "div", "first"),
				makeSymbol(elements, "div", "second"),
			},
			query: qname(elements, "div"),
			want: []*symbol.Symbol{
				makeSymbol(elements, "div", "first"),
				makeSymbol(elements, "div", "second"),
			},
		},
		"pattern via matcher": {
			symbols: []*symbol.Symbol{
				makeSymbol(attributes, "class", "test"),
				makePattern(attributes, "data-", "test"),
				makeSymbol(attributes, "data-id", "test"),
			},
			query:   qname(attributes, "data-id"),
			matcher: prefixMatcher{},
			want: []*symbol.Symbol{
				makePattern(attributes, "data-", "test"),
				makeSymbol(attributes, "data-id", "test"),
			},
		},
		"patterns ignored without matcher": {
			symbols: []*symbol.Symbol{
				makePattern(attributes, "data-", "test"),
			},
			query: qname(attributes, "data-id"),
			want:  nil,
		},
	} {
		t.Run(name, func(t *testing.T) {
			scope := NewTrieScope("test")
			for _, sym := range tc.symbols {
				if err := scope.PutSymbol(sym); err != nil {
					t.Fatal(err)
				}
			}
			got := scope.MatchSymbols(tc.query, tc.matcher)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestTrieScopePutSymbolErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		sym  *symbol.Symbol
		want string
	}{
		"nil": {
			want: "test: PutSymbol: nil symbol",
		},
		"missing kind": {
			sym:  &symbol.Symbol{Namespace: symbol.NamespaceHTML, Name: "div"},
			want: "test: PutSymbol: missing namespace or kind: (html//div<>)",
		},
		"slash in kind": {
			sym:  &symbol.Symbol{Namespace: symbol.NamespaceHTML, Kind: "a/b", Name: "c"},
			want: "test: PutSymbol: namespace and kind must not contain '/': (html/a/b/c<>)",
		},
		"slash in namespace": {
			sym:  &symbol.Symbol{Namespace: "html/a", Kind: "b", Name: "c"},
			want: "test: PutSymbol: namespace and kind must not contain '/': (html/a/b/c<>)",
		},
		"neither name nor pattern": {
			sym:  &symbol.Symbol{Namespace: symbol.NamespaceHTML, Kind: symbol.KindElements},
			want: "test: PutSymbol: symbol has neither name nor pattern: (html/elements/<>)",
		},
	} {
		t.Run(name, func(t *testing.T) {
			err := NewTrieScope("test").PutSymbol(tc.sym)
			if status.Code(err) != codes.InvalidArgument {
				t.Fatalf("want InvalidArgument, got %v", err)
			}
			if diff := cmp.Diff(tc.want, status.Convert(err).Message()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestTrieScopeSlashInName(t *testing.T) {
	s := NewTrieScope("test")
	for _, name := range []string{"b/c", "b", "c"} {
		if err := s.PutSymbol(makeSymbol(elements, name, "test")); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"b/c", "b", "c"} {
		got := s.GetSymbols(qname(elements, name))
		if len(got) != 1 || got[0].Name != name {
			t.Errorf("GetSymbols(%q): want one symbol named %q, got %v", name, name, got)
		}
	}
}

func TestTrieScopeDefaultsOrigin(t *testing.T) {
	scope := NewTrieScope("html")
	sym := &symbol.Symbol{Namespace: symbol.NamespaceHTML, Kind: symbol.KindElements, Name: "div"}
	if err := scope.PutSymbol(sym); err != nil {
		t.Fatal(err)
	}
	if sym.Origin != "html" {
		t.Errorf("origin: want html, got %q", sym.Origin)
	}
}

func TestTrieScopeListSymbols(t *testing.T) {
	scope := NewTrieScope("test")
	for _, sym := range []*symbol.Symbol{
		makeSymbol(elements, "span", "test"),
		makeSymbol(attributes, "class", "test"),
		makeSymbol(elements, "div", "test"),
	} {
		if err := scope.PutSymbol(sym); err != nil {
			t.Fatal(err)
		}
	}
	want := []*symbol.Symbol{
		makeSymbol(elements, "span", "test"),
		makeSymbol(elements, "div", "test"),
	}
	if diff := cmp.Diff(want, scope.ListSymbols(elements)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := scope.Len(); got != 3 {
		t.Errorf("Len: want 3, got %d", got)
	}
}

func TestTrieScopeModificationCount(t *testing.T) {
	scope := NewTrieScope("test")
	last := scope.ModificationCount()
	steps := []func() error{
		func() error { return scope.PutSymbol(makeSymbol(elements, "div", "test")) },
		func() error { scope.SetExclusive(elements); return nil },
		func() error { return scope.PutSymbol(makeSymbol(elements, "span", "test")) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatal(err)
		}
		got := scope.ModificationCount()
		if got <= last {
			t.Fatalf("step %d: modification count did not increase: %d -> %d", i, last, got)
		}
		last = got
	}
	// repeated exclusivity is not a structural change
	scope.SetExclusive(elements)
	if got := scope.ModificationCount(); got != last {
		t.Errorf("want %d, got %d", last, got)
	}
}

func TestTrieScopeConcurrentAccess(t *testing.T) {
	scope := NewTrieScope("test")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if err := scope.PutSymbol(makeSymbol(elements, "div", "test")); err != nil {
					t.Error(err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				scope.MatchSymbols(qname(elements, "div"), nil)
				scope.ListSymbols(elements)
			}
		}()
	}
	wg.Wait()
	if got := len(scope.GetSymbols(qname(elements, "div"))); got != 800 {
		t.Errorf("want 800 symbols, got %d", got)
	}
	if got := scope.ModificationCount(); got != 800 {
		t.Errorf("want modification count 800, got %d", got)
	}
}

type result struct {
	Segment string
	Path    int
}

func TestPathSegmenter(t *testing.T) {
	for name, tc := range map[string]struct {
		want []result
	}{
		"degenerate": {
			want: []result{
				{Segment: "degenerate", Path: -1},
			},
		},
		"/a": {
			want: []result{
				{Segment: "/a", Path: -1},
			},
		},
		"/a/b/c": {
			want: []result{
				{Segment: "/a", Path: 2},
				{Segment: "/b", Path: 4},
				{Segment: "/c", Path: -1},
			},
		},
		"/html/elements/div": {
			want: []result{
				{Segment: "/html", Path: 5},
				{Segment: "/elements", Path: 14},
				{Segment: "/div", Path: -1},
			},
		},
		"/a/": {
			want: []result{
				{Segment: "/a", Path: 2},
				{Segment: "/", Path: -1},
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			var got []result
			for part, i := pathSegmenter(name, 0); part != ""; part, i = pathSegmenter(name, i) {
				got = append(got, result{part, i})
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

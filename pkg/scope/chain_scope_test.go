package scope_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/mock"

	"github.com/stackb/websymbols/pkg/scope"
	"github.com/stackb/websymbols/pkg/scope/mocks"
	"github.com/stackb/websymbols/pkg/symbol"
)

var (
	elements = symbol.QualifiedKind{Namespace: symbol.NamespaceHTML, Kind: symbol.KindElements}
	div      = symbol.QualifiedName{Namespace: symbol.NamespaceHTML, Kind: symbol.KindElements, Name: "div"}
)

func mustPut(t *testing.T, s *scope.TrieScope, symbols ...*symbol.Symbol) *scope.TrieScope {
	t.Helper()
	for _, sym := range symbols {
		if err := s.PutSymbol(sym); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestChainScope(t *testing.T) {
	a := mustPut(t, scope.NewTrieScope("a"), symbol.NewSymbol(symbol.NamespaceHTML, symbol.KindElements, "div", "a"))
	b := mustPut(t, scope.NewTrieScope("b"), symbol.NewSymbol(symbol.NamespaceHTML, symbol.KindElements, "div", "b"))

	for name, tc := range map[string]struct {
		chain []scope.Contributor
		want  []string
	}{
		"degenerate": {},
		"chain order is precedence": {
			chain: []scope.Contributor{b, a},
			want:  []string{"b", "a"},
		},
		"listing-only contributors are skipped for matches": {
			chain: func() []scope.Contributor {
				lister := mocks.NewContributor("lister", scope.Listing)
				return []scope.Contributor{lister, a}
			}(),
			want: []string{"a"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			chain := scope.NewChainScope("chain", tc.chain...)
			var got []string
			for _, sym := range chain.MatchSymbols(div, nil) {
				got = append(got, sym.Origin)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestChainScopeCapabilitiesAndExclusivity(t *testing.T) {
	completer := mocks.NewContributor("completer", scope.Completion|scope.Exclusivity)
	completer.On("ExclusiveFor", elements).Return(true)
	completer.On("CompletionItems", div, 1).Return([]symbol.CompletionItem{{Name: "div"}})

	chain := scope.NewChainScope("chain", scope.NewTrieScope("empty"), completer)

	if !chain.Capabilities().Has(scope.NameMatch | scope.Completion | scope.Exclusivity) {
		t.Errorf("capabilities not merged: %b", chain.Capabilities())
	}
	if !chain.ExclusiveFor(elements) {
		t.Error("expected chain to be exclusive for elements")
	}
	if diff := cmp.Diff([]symbol.CompletionItem{{Name: "div"}}, chain.CompletionItems(div, 1)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	completer.AssertExpectations(t)
}

func TestExclusiveScope(t *testing.T) {
	inner := mocks.NewContributor("inner", scope.NameMatch)
	inner.On("MatchSymbols", div, mock.Anything).Return([]*symbol.Symbol{symbol.NewSymbol(symbol.NamespaceHTML, symbol.KindElements, "div", "inner")})

	exclusive := scope.NewExclusiveScope(inner, elements)
	if !exclusive.Capabilities().Has(scope.NameMatch | scope.Exclusivity) {
		t.Errorf("capabilities: %b", exclusive.Capabilities())
	}
	if !exclusive.ExclusiveFor(elements) {
		t.Error("expected exclusivity for elements")
	}
	attrs := symbol.QualifiedKind{Namespace: symbol.NamespaceHTML, Kind: symbol.KindAttributes}
	if exclusive.ExclusiveFor(attrs) {
		t.Error("unexpected exclusivity for attributes")
	}
	if got := exclusive.MatchSymbols(div, nil); len(got) != 1 || got[0].Origin != "inner" {
		t.Errorf("MatchSymbols not delegated: %v", got)
	}
	if got := exclusive.ListSymbols(elements); got != nil {
		t.Errorf("ListSymbols on a non-lister: want nil, got %v", got)
	}
	inner.AssertExpectations(t)
}

func TestMemberScope(t *testing.T) {
	attrs := symbol.QualifiedKind{Namespace: symbol.NamespaceHTML, Kind: symbol.KindAttributes}
	class := symbol.NewSymbol(attrs.Namespace, attrs.Kind, "class", "html")
	id := symbol.NewSymbol(attrs.Namespace, attrs.Kind, "id", "html")
	parent := symbol.NewSymbol(symbol.NamespaceHTML, symbol.KindElements, "div", "html")
	parent.Members = []*symbol.Symbol{class, id}
	leaf := symbol.NewSymbol(symbol.NamespaceHTML, symbol.KindElements, "br", "html")

	scopes := scope.MemberScopes([]*symbol.Symbol{parent, leaf})
	if len(scopes) != 1 {
		t.Fatalf("want one member scope, got %d", len(scopes))
	}
	members := scopes[0].(*scope.MemberScope)

	got := members.MatchSymbols(symbol.QualifiedName{Namespace: attrs.Namespace, Kind: attrs.Kind, Name: "id"}, nil)
	if diff := cmp.Diff([]*symbol.Symbol{id}, got); diff != "" {
		t.Errorf("MatchSymbols (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]*symbol.Symbol{class, id}, members.ListSymbols(attrs)); diff != "" {
		t.Errorf("ListSymbols (-want +got):\n%s", diff)
	}
	if members.ListSymbols(elements) != nil {
		t.Error("members of another kind should not be listed")
	}
}

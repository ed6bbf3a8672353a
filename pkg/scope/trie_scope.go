package scope

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dghubble/trie"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/stackb/websymbols/pkg/symbol"
)

var symbolPathTrieConfig = &trie.PathTrieConfig{
	Segmenter: pathSegmenter,
}

// TrieScope implements Contributor using a trie keyed by "/ns/kind/name".  It
// is safe for concurrent use; every PutSymbol bumps the modification count.
type TrieScope struct {
	name string

	mu        sync.RWMutex
	trie      *trie.PathTrie // value type: []*symbol.Symbol
	byKind    map[symbol.QualifiedKind][]*symbol.Symbol
	patterns  map[symbol.QualifiedKind]int
	exclusive map[symbol.QualifiedKind]bool
	size      int

	modCount atomic.Int64
}

// NewTrieScope constructs a new TrieScope.
func NewTrieScope(name string) *TrieScope {
	return &TrieScope{
		name:      name,
		trie:      trie.NewPathTrieWithConfig(symbolPathTrieConfig),
		byKind:    make(map[symbol.QualifiedKind][]*symbol.Symbol),
		patterns:  make(map[symbol.QualifiedKind]int),
		exclusive: make(map[symbol.QualifiedKind]bool),
	}
}

// Name implements part of the Contributor interface.
func (r *TrieScope) Name() string {
	return r.name
}

// Capabilities implements part of the Contributor interface.
func (r *TrieScope) Capabilities() Capability {
	return NameMatch | Listing | Exclusivity
}

// PutSymbol adds the given symbol.  Symbols with the same qualified name are
// kept in insertion order.  The origin defaults to the scope name.
func (r *TrieScope) PutSymbol(sym *symbol.Symbol) error {
	if sym == nil {
		return status.Errorf(codes.InvalidArgument, "%s: PutSymbol: nil symbol", r.name)
	}
	if sym.Namespace == "" || sym.Kind == "" {
		return status.Errorf(codes.InvalidArgument, "%s: PutSymbol: missing namespace or kind: %v", r.name, sym)
	}
	if strings.Contains(string(sym.Namespace), "/") || strings.Contains(string(sym.Kind), "/") {
		return status.Errorf(codes.InvalidArgument, "%s: PutSymbol: namespace and kind must not contain '/': %v", r.name, sym)
	}
	if sym.Name == "" && sym.Pattern == "" {
		return status.Errorf(codes.InvalidArgument, "%s: PutSymbol: symbol has neither name nor pattern: %v", r.name, sym)
	}
	if sym.Origin == "" {
		sym.Origin = r.name
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kind := sym.QualifiedKind()
	r.byKind[kind] = append(r.byKind[kind], sym)
	if sym.IsPattern() {
		r.patterns[kind]++
	} else {
		key := symbolKey(sym.QualifiedName())
		var existing []*symbol.Symbol
		if v := r.trie.Get(key); v != nil {
			existing = v.([]*symbol.Symbol)
		}
		r.trie.Put(key, append(existing, sym))
	}
	r.size++
	r.modCount.Add(1)
	return nil
}

// SetExclusive marks the scope as the exclusive owner of the given kind.
func (r *TrieScope) SetExclusive(kind symbol.QualifiedKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.exclusive[kind] {
		r.exclusive[kind] = true
		r.modCount.Add(1)
	}
}

// GetSymbols does an exact lookup of the given qualified name.
func (r *TrieScope) GetSymbols(qn symbol.QualifiedName) []*symbol.Symbol {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v := r.trie.Get(symbolKey(qn)); v != nil {
		return append([]*symbol.Symbol(nil), v.([]*symbol.Symbol)...)
	}
	return nil
}

// MatchSymbols implements part of the NameProvider interface.
func (r *TrieScope) MatchSymbols(query symbol.QualifiedName, m Matcher) []*symbol.Symbol {
	kind := query.QualifiedKind()

	r.mu.RLock()
	defer r.mu.RUnlock()

	// without patterns or name conversion the trie answers directly
	if r.patterns[kind] == 0 && (m == nil || m.Exact(kind)) {
		if v := r.trie.Get(symbolKey(query)); v != nil {
			return append([]*symbol.Symbol(nil), v.([]*symbol.Symbol)...)
		}
		return nil
	}

	var matches []*symbol.Symbol
	for _, sym := range r.byKind[kind] {
		if m == nil {
			if !sym.IsPattern() && sym.Name == query.Name {
				matches = append(matches, sym)
			}
			continue
		}
		if m.Match(query, sym) {
			matches = append(matches, sym)
		}
	}
	return matches
}

// ListSymbols implements part of the ListProvider interface.
func (r *TrieScope) ListSymbols(kind symbol.QualifiedKind) []*symbol.Symbol {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*symbol.Symbol(nil), r.byKind[kind]...)
}

// ExclusiveFor implements part of the ExclusiveProvider interface.
func (r *TrieScope) ExclusiveFor(kind symbol.QualifiedKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.exclusive[kind]
}

// ModificationCount implements the ModificationTracker interface.
func (r *TrieScope) ModificationCount() int64 {
	return r.modCount.Load()
}

// Len returns the number of symbols in the scope.
func (r *TrieScope) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// String implements the fmt.Stringer interface
func (r *TrieScope) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var buf strings.Builder
	fmt.Fprintf(&buf, "TrieScope %s (%d symbols)", r.name, r.size)
	r.trie.Walk(func(key string, value interface{}) error {
		for _, sym := range value.([]*symbol.Symbol) {
			buf.WriteString("\n  ")
			buf.WriteString(sym.String())
		}
		return nil
	})
	return buf.String()
}

// symbolKey is unambiguous because namespaces and kinds never contain '/';
// the name is everything after the second separator.
func symbolKey(qn symbol.QualifiedName) string {
	return "/" + qn.String()
}

// pathSegmenter segments string key paths by slash separators. For example,
// "/a/b/c" -> ("/a", 2), ("/b", 4), ("/c", -1) in successive calls. It does
// not allocate any heap memory.
func pathSegmenter(path string, start int) (segment string, next int) {
	if len(path) == 0 || start < 0 || start > len(path)-1 {
		return "", -1
	}
	end := strings.IndexRune(path[start+1:], '/') // next '/' after 0th rune
	if end == -1 {
		return path[start:], -1
	}
	return path[start : start+end+1], start + end + 1
}

// Package pattern implements templated symbol names.
//
// A pattern is literal text mixed with the following constructs:
//
//	construct    meaning
//	*            any run of characters
//	?            any single character
//	{a,b,c}      one of the listed literal alternatives
//	${ns/kind}   the name of any symbol of the given namespace and kind
//	\x           the literal character x
//
// Patterns are matched with doublestar globs.  A pattern without wildcards can
// be expanded into the list of concrete names it denotes.
package pattern

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/stackb/websymbols/pkg/symbol"
)

// DefaultExpansionLimit caps the number of names a single pattern may expand
// into.
const DefaultExpansionLimit = 1024

// Resolver returns the known names of the given namespace and kind.  It is
// used to substitute ${ns/kind} references.
type Resolver func(kind symbol.QualifiedKind) []string

type partType int

const (
	literalPart partType = iota
	anyPart
	singlePart
	alternativesPart
	referencePart
)

type part struct {
	typ          partType
	text         string
	alternatives []string
	ref          symbol.QualifiedKind
}

// Pattern is a compiled pattern.  It is immutable.
type Pattern struct {
	source string
	parts  []part
}

// Compile parses the given source.
func Compile(source string) (*Pattern, error) {
	if source == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	p := &Pattern{source: source}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			p.parts = append(p.parts, part{typ: literalPart, text: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(source); i++ {
		c := source[i]
		switch {
		case c == '\\':
			if i+1 >= len(source) {
				return nil, fmt.Errorf("pattern %q: trailing escape", source)
			}
			i++
			lit.WriteByte(source[i])
		case c == '*':
			flush()
			// consecutive stars are the same as one
			if n := len(p.parts); n == 0 || p.parts[n-1].typ != anyPart {
				p.parts = append(p.parts, part{typ: anyPart})
			}
		case c == '?':
			flush()
			p.parts = append(p.parts, part{typ: singlePart})
		case c == '$' && i+1 < len(source) && source[i+1] == '{':
			end := strings.IndexByte(source[i:], '}')
			if end == -1 {
				return nil, fmt.Errorf("pattern %q: unterminated reference at %d", source, i)
			}
			ref, err := symbol.ParseQualifiedKind(source[i+2 : i+end])
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", source, err)
			}
			flush()
			p.parts = append(p.parts, part{typ: referencePart, ref: ref})
			i += end
		case c == '{':
			end := strings.IndexByte(source[i:], '}')
			if end == -1 {
				return nil, fmt.Errorf("pattern %q: unterminated alternatives at %d", source, i)
			}
			body := source[i+1 : i+end]
			if strings.ContainsAny(body, "{*?\\") {
				return nil, fmt.Errorf("pattern %q: alternatives must be literal text", source)
			}
			flush()
			p.parts = append(p.parts, part{typ: alternativesPart, alternatives: strings.Split(body, ",")})
			i += end
		case c == '}':
			return nil, fmt.Errorf("pattern %q: unbalanced '}' at %d", source, i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(source string) *Pattern {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source text.
func (p *Pattern) String() string {
	return p.source
}

// References returns the (namespace, kind) pairs the pattern refers to.
func (p *Pattern) References() []symbol.QualifiedKind {
	var refs []symbol.QualifiedKind
	for _, pt := range p.parts {
		if pt.typ == referencePart {
			refs = append(refs, pt.ref)
		}
	}
	return refs
}

// Prefix returns the literal text before the first non-literal construct.
func (p *Pattern) Prefix() string {
	if len(p.parts) > 0 && p.parts[0].typ == literalPart {
		return p.parts[0].text
	}
	return ""
}

// Expandable reports whether the pattern contains no wildcards.
func (p *Pattern) Expandable() bool {
	for _, pt := range p.parts {
		if pt.typ == anyPart || pt.typ == singlePart {
			return false
		}
	}
	return true
}

// Glob renders the pattern as a doublestar glob.  References are replaced by
// the alternatives returned by resolve, or by '*' when nothing is known.
func (p *Pattern) Glob(resolve Resolver) string {
	var buf strings.Builder
	for _, pt := range p.parts {
		switch pt.typ {
		case literalPart:
			buf.WriteString(escape(pt.text))
		case anyPart:
			buf.WriteRune('*')
		case singlePart:
			buf.WriteRune('?')
		case alternativesPart:
			writeAlternatives(&buf, pt.alternatives)
		case referencePart:
			var names []string
			if resolve != nil {
				names = resolve(pt.ref)
			}
			if len(names) == 0 {
				buf.WriteRune('*')
			} else {
				writeAlternatives(&buf, names)
			}
		}
	}
	return buf.String()
}

// Match reports whether name is denoted by the pattern.
func (p *Pattern) Match(name string, resolve Resolver) bool {
	return MatchName(p.Glob(resolve), name)
}

// slash stands in for '/' while matching.  Names are not paths, so '*' and
// '?' must match a '/' like any other character.
const slash = "\uF8FF"

// MatchName reports whether the doublestar glob matches name, with '/'
// treated as an ordinary character on both sides.
func MatchName(glob, name string) bool {
	ok, err := doublestar.Match(strings.ReplaceAll(glob, "/", slash), strings.ReplaceAll(name, "/", slash))
	return err == nil && ok
}

// Expand returns the concrete names denoted by the pattern.  The second
// result is false when the pattern cannot be expanded: it contains wildcards,
// a reference resolves to no names, or the product exceeds limit.
func (p *Pattern) Expand(resolve Resolver, limit int) ([]string, bool) {
	if !p.Expandable() {
		return nil, false
	}
	if limit <= 0 {
		limit = DefaultExpansionLimit
	}
	names := []string{""}
	for _, pt := range p.parts {
		var choices []string
		switch pt.typ {
		case literalPart:
			choices = []string{pt.text}
		case alternativesPart:
			choices = pt.alternatives
		case referencePart:
			if resolve != nil {
				choices = resolve(pt.ref)
			}
			if len(choices) == 0 {
				return nil, false
			}
		}
		if len(names)*len(choices) > limit {
			return nil, false
		}
		next := make([]string, 0, len(names)*len(choices))
		for _, prefix := range names {
			for _, choice := range choices {
				next = append(next, prefix+choice)
			}
		}
		names = next
	}
	return names, true
}

func writeAlternatives(buf *strings.Builder, alternatives []string) {
	buf.WriteRune('{')
	for i, alt := range alternatives {
		if i > 0 {
			buf.WriteRune(',')
		}
		buf.WriteString(escape(alt))
	}
	buf.WriteRune('}')
}

// escape quotes the doublestar meta characters in s.
func escape(s string) string {
	if !strings.ContainsAny(s, `*?[]{},\`) {
		return s
	}
	var buf strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[]{},\`, r) {
			buf.WriteRune('\\')
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

package symbol

import (
	"fmt"
	"strings"
)

// Namespace partitions symbol kinds into coarse categories, such as "html" or
// "css".  The set is open.
type Namespace string

// Kind is a symbol category within a namespace, such as "elements".  The set
// is open.
type Kind string

const (
	NamespaceHTML Namespace = "html"
	NamespaceCSS  Namespace = "css"
	NamespaceJS   Namespace = "js"
)

const (
	KindElements        Kind = "elements"
	KindAttributes      Kind = "attributes"
	KindAttributeValues Kind = "values"
	KindProperties      Kind = "properties"
	KindPseudoClasses   Kind = "pseudo-classes"
	KindEvents          Kind = "events"
	KindSymbols         Kind = "symbols"
)

// QualifiedName identifies the target of a single lookup.
type QualifiedName struct {
	Namespace Namespace
	Kind      Kind
	Name      string
}

// NewQualifiedName is a convenience constructor.
func NewQualifiedName(ns Namespace, kind Kind, name string) QualifiedName {
	return QualifiedName{Namespace: ns, Kind: kind, Name: name}
}

// QualifiedKind returns the (namespace, kind) pair of the name.
func (q QualifiedName) QualifiedKind() QualifiedKind {
	return QualifiedKind{Namespace: q.Namespace, Kind: q.Kind}
}

// String implements fmt.Stringer.  The form is "ns/kind/name".
func (q QualifiedName) String() string {
	return string(q.Namespace) + "/" + string(q.Kind) + "/" + q.Name
}

// QualifiedKind is a (namespace, kind) pair.
type QualifiedKind struct {
	Namespace Namespace
	Kind      Kind
}

// String implements fmt.Stringer.  The form is "ns/kind".
func (k QualifiedKind) String() string {
	return string(k.Namespace) + "/" + string(k.Kind)
}

// ParseQualifiedKind parses the form "ns/kind".
func ParseQualifiedKind(s string) (QualifiedKind, error) {
	fields := strings.Split(s, "/")
	if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
		return QualifiedKind{}, fmt.Errorf("malformed qualified kind %q: expected form is {NAMESPACE}/{KIND}", s)
	}
	return QualifiedKind{Namespace: Namespace(fields[0]), Kind: Kind(fields[1])}, nil
}

// Path is an ordered sequence of qualified names representing a nested
// lookup.  Segments are resolved left-to-right.
type Path []QualifiedName

// NewPath is a convenience constructor.
func NewPath(names ...QualifiedName) Path {
	return Path(names)
}

// Last returns the final segment.  It panics on an empty path.
func (p Path) Last() QualifiedName {
	return p[len(p)-1]
}

// Parent returns all but the final segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// String implements fmt.Stringer.  The form is "/ns/kind/name/ns/kind/name".
func (p Path) String() string {
	var buf strings.Builder
	for _, q := range p {
		buf.WriteRune('/')
		buf.WriteString(q.String())
	}
	return buf.String()
}

// ParsePath parses the form produced by Path.String.  The name of the last
// segment may be empty (e.g. "/html/elements/"), which is useful for
// completion queries.
func ParsePath(s string) (Path, error) {
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("malformed path %q: must start with '/'", s)
	}
	fields := strings.Split(s[1:], "/")
	if len(fields)%3 != 0 {
		return nil, fmt.Errorf("malformed path %q: expected triples of {NAMESPACE}/{KIND}/{NAME}", s)
	}
	path := make(Path, 0, len(fields)/3)
	for i := 0; i < len(fields); i += 3 {
		q := QualifiedName{
			Namespace: Namespace(fields[i]),
			Kind:      Kind(fields[i+1]),
			Name:      fields[i+2],
		}
		if q.Namespace == "" || q.Kind == "" {
			return nil, fmt.Errorf("malformed path %q: segment %d has an empty namespace or kind", s, i/3)
		}
		path = append(path, q)
	}
	return path, nil
}

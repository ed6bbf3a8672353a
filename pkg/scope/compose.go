package scope

import "reflect"

// Compose merges the caller-supplied contributors with the ambient ones held
// by an executor.  In strict mode the ambient contributors are ignored.
// Otherwise ambient contributors follow the caller's, so caller entries take
// precedence.  A contributor present more than once is kept at its first
// position; nil entries are dropped.  Contributors whose dynamic type is not
// comparable are never considered duplicates.
func Compose(caller, ambient []Contributor, strict bool) []Contributor {
	n := len(caller)
	if !strict {
		n += len(ambient)
	}
	out := make([]Contributor, 0, n)
	seen := make(map[Contributor]bool, n)
	add := func(list []Contributor) {
		for _, c := range list {
			if c == nil {
				continue
			}
			if !reflect.TypeOf(c).Comparable() {
				out = append(out, c)
				continue
			}
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	add(caller)
	if !strict {
		add(ambient)
	}
	return out
}

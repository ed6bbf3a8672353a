package starlarkeval

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/stackb/websymbols/pkg/index"
)

// symbolValue is the starlark value returned by symbol().
type symbolValue struct {
	spec *index.SymbolSpec
}

// String implements part of the starlark.Value interface.
func (v *symbolValue) String() string {
	name := v.spec.Name
	if name == "" {
		name = "<" + v.spec.Pattern + ">"
	}
	return fmt.Sprintf("symbol(%s/%s/%s)", v.spec.Namespace, v.spec.Kind, name)
}

// Type implements part of the starlark.Value interface.
func (v *symbolValue) Type() string { return "symbol" }

// Freeze implements part of the starlark.Value interface.  Symbols are
// immutable once created.
func (v *symbolValue) Freeze() {}

// Truth implements part of the starlark.Value interface.
func (v *symbolValue) Truth() starlark.Bool { return starlark.True }

// Hash implements part of the starlark.Value interface.
func (v *symbolValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: symbol")
}

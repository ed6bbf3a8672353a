package query

import (
	"github.com/stackb/websymbols/pkg/scope"
)

// Params controls a query.  The zero value is the default: virtual symbols
// are included, abstract symbols are excluded and the executor's ambient
// scopes follow the caller's.
type Params struct {
	// ExcludeVirtual drops synthetic symbols.
	ExcludeVirtual bool
	// IncludeAbstract keeps declaration-only symbols.  Ignored by code
	// completion, which never proposes abstract symbols.
	IncludeAbstract bool
	// StrictScope ignores the executor's ambient scopes.  Ignored by code
	// completion.
	StrictScope bool
	// Scope holds caller-supplied contributors.  They take precedence over
	// the ambient scopes.
	Scope []scope.Contributor
}

func (p Params) forCompletion() Params {
	return Params{ExcludeVirtual: p.ExcludeVirtual, Scope: p.Scope}
}

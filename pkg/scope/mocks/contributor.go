package mocks

import (
	mock "github.com/stretchr/testify/mock"

	"github.com/stackb/websymbols/pkg/scope"
	"github.com/stackb/websymbols/pkg/symbol"
)

// Contributor is a mock implementation of every scope provider interface.
// The capability tag is fixed at construction; calls are recorded by the
// embedded mock.
type Contributor struct {
	mock.Mock
	name string
	caps scope.Capability
}

// NewContributor creates a new mock with the given name and capabilities.
func NewContributor(name string, caps scope.Capability) *Contributor {
	return &Contributor{name: name, caps: caps}
}

// Name implements part of the scope.Contributor interface.
func (m *Contributor) Name() string {
	return m.name
}

// Capabilities implements part of the scope.Contributor interface.
func (m *Contributor) Capabilities() scope.Capability {
	return m.caps
}

// String implements fmt.Stringer.
func (m *Contributor) String() string {
	return "mock " + m.name
}

// MatchSymbols provides a mock function with given fields: query, matcher
func (m *Contributor) MatchSymbols(query symbol.QualifiedName, matcher scope.Matcher) []*symbol.Symbol {
	ret := m.Called(query, matcher)
	if fn, ok := ret.Get(0).(func(symbol.QualifiedName, scope.Matcher) []*symbol.Symbol); ok {
		return fn(query, matcher)
	}
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).([]*symbol.Symbol)
}

// ListSymbols provides a mock function with given fields: kind
func (m *Contributor) ListSymbols(kind symbol.QualifiedKind) []*symbol.Symbol {
	ret := m.Called(kind)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).([]*symbol.Symbol)
}

// CompletionItems provides a mock function with given fields: query, position
func (m *Contributor) CompletionItems(query symbol.QualifiedName, position int) []symbol.CompletionItem {
	ret := m.Called(query, position)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).([]symbol.CompletionItem)
}

// ExclusiveFor provides a mock function with given fields: kind
func (m *Contributor) ExclusiveFor(kind symbol.QualifiedKind) bool {
	ret := m.Called(kind)
	return ret.Bool(0)
}

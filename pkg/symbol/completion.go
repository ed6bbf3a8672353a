package symbol

import "fmt"

// CompletionItem is a single code completion proposal.
type CompletionItem struct {
	// Name is the text to insert.
	Name string
	// Offset is the position in the last path segment where Name starts
	// replacing text.
	Offset int
	// Priority orders the proposals.
	Priority Priority
	// Symbol is the symbol the proposal originates from.  It may be nil for
	// proposals produced directly by a completion provider.
	Symbol *Symbol
}

// String implements fmt.Stringer
func (c CompletionItem) String() string {
	return fmt.Sprintf("%s@%d<%v>", c.Name, c.Offset, c.Priority)
}

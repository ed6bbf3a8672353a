package index

// IndexSpec describes a named set of symbols.
type IndexSpec struct {
	// Name is recorded as the origin of symbols that do not name one.
	Name string `json:"name,omitempty"`
	// Symbols is the list of top-level symbols in the index.
	Symbols []*SymbolSpec `json:"symbols,omitempty"`
	// Exclusive is a list of "{NAMESPACE}/{KIND}" pairs the index owns
	// exclusively.
	Exclusive []string `json:"exclusive,omitempty"`
}

// SymbolSpec describes a single symbol and its members.
type SymbolSpec struct {
	Namespace string `json:"namespace,omitempty"`
	Kind      string `json:"kind,omitempty"`
	// Name is empty for pattern symbols.
	Name    string `json:"name,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	// Origin defaults to the index name.
	Origin    string `json:"origin,omitempty"`
	Framework string `json:"framework,omitempty"`
	// Priority is one of lowest, low, normal, high, highest.  Empty means
	// normal.
	Priority    string        `json:"priority,omitempty"`
	Virtual     bool          `json:"virtual,omitempty"`
	Abstract    bool          `json:"abstract,omitempty"`
	Description string        `json:"description,omitempty"`
	Members     []*SymbolSpec `json:"members,omitempty"`
}

package extension

import "strings"

// DefaultFixed lists the fixed extensions offered when no catalog is configured.
var DefaultFixed = []string{"bat", "cmd", "com", "cpl", "exe", "scr", "js"}

// Catalog is the closed, ordered set of fixed extensions the client renders a
// checkbox for.
type Catalog struct {
	names []string
	index map[string]struct{}
}

// NewCatalog builds a catalog from names, dropping blanks and duplicates while
// keeping the first-seen order. An empty input yields DefaultFixed.
func NewCatalog(names []string) Catalog {
	if len(names) == 0 {
		names = DefaultFixed
	}
	c := Catalog{index: make(map[string]struct{}, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := c.index[name]; dup {
			continue
		}
		c.index[name] = struct{}{}
		c.names = append(c.names, name)
	}
	return c
}

// Names returns the catalog entries in display order.
func (c Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Contains reports whether name is a fixed extension.
func (c Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Len returns the number of fixed extensions.
func (c Catalog) Len() int {
	return len(c.names)
}

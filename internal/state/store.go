package state

import (
	"slices"
	"sync"
	"time"

	"github.com/five82/blockext/internal/extension"
)

// ConnState describes the push channel as last reported by the listener.
type ConnState int

const (
	ConnDisconnected ConnState = iota
	ConnConnecting
	ConnConnected
)

func (c ConnState) String() string {
	switch c {
	case ConnConnecting:
		return "connecting"
	case ConnConnected:
		return "live"
	default:
		return "offline"
	}
}

// FixedItem is one rendered checkbox.
type FixedItem struct {
	Name    string
	Checked bool
}

// View is an immutable copy of the rendered state.
type View struct {
	Fixed       []FixedItem // catalog order
	Custom      []string
	Count       int
	Loaded      bool // at least one snapshot has been applied
	Conn        ConnState
	LastMessage time.Time
	Reconnects  int   // consecutive failed connection attempts
	ConnErr     error // why the last session ended, nil once connected
}

// IsChecked reports whether the named fixed extension is rendered as blocked.
func (v View) IsChecked(name string) bool {
	for _, item := range v.Fixed {
		if item.Name == name {
			return item.Checked
		}
	}
	return false
}

// CheckedNames returns the blocked fixed extensions in catalog order.
func (v View) CheckedNames() []string {
	var out []string
	for _, item := range v.Fixed {
		if item.Checked {
			out = append(out, item.Name)
		}
	}
	return out
}

// Store holds the rendered extension state. It has a single writer, the
// synchronization engine loop, and any number of readers.
type Store struct {
	mu          sync.RWMutex
	catalog     extension.Catalog
	checked     map[string]bool
	custom      []string
	count       int
	loaded      bool
	conn        ConnState
	reconnects  int
	connErr     error
	lastMessage time.Time
}

// NewStore returns a store rendering one checkbox per catalog entry, all
// unchecked.
func NewStore(catalog extension.Catalog) *Store {
	return &Store{
		catalog: catalog,
		checked: make(map[string]bool, catalog.Len()),
	}
}

// Catalog returns the fixed extensions this store renders.
func (s *Store) Catalog() extension.Catalog {
	return s.catalog
}

// Replace overwrites the whole rendered state: every fixed extension is
// unchecked, then the listed ones are checked; the custom list and count are
// replaced as given.
func (s *Store) Replace(fixed, custom []string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checked = make(map[string]bool, s.catalog.Len())
	for _, name := range fixed {
		if s.catalog.Contains(name) {
			s.checked[name] = true
		}
	}
	s.custom = slices.Clone(custom)
	s.count = count
	s.loaded = true
	s.lastMessage = time.Now()
}

// SetFixed renders the named fixed extensions as checked or unchecked. Names
// outside the catalog have no checkbox and are ignored.
func (s *Store) SetFixed(checked bool, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checked == nil {
		s.checked = make(map[string]bool)
	}
	for _, name := range names {
		if !s.catalog.Contains(name) {
			continue
		}
		if checked {
			s.checked[name] = true
		} else {
			delete(s.checked, name)
		}
	}
}

// Touch records that a push message was applied.
func (s *Store) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastMessage = time.Now()
}

// Checked reports the rendered state of a single fixed extension.
func (s *Store) Checked(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checked[name]
}

// SetConnection records a push channel transition. A non-nil err counts as a
// failed attempt; reaching ConnConnected resets the counter.
func (s *Store) SetConnection(conn ConnState, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn = conn
	if err != nil {
		s.reconnects++
		s.connErr = err
	}
	if conn == ConnConnected {
		s.reconnects = 0
		s.connErr = nil
	}
}

// Snapshot returns a copy of the current rendered state.
func (s *Store) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := s.catalog.Names()
	fixed := make([]FixedItem, len(names))
	for i, name := range names {
		fixed[i] = FixedItem{Name: name, Checked: s.checked[name]}
	}
	return View{
		Fixed:       fixed,
		Custom:      slices.Clone(s.custom),
		Count:       s.count,
		Loaded:      s.loaded,
		Conn:        s.conn,
		LastMessage: s.lastMessage,
		Reconnects:  s.reconnects,
		ConnErr:     s.connErr,
	}
}

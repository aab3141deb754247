// Package state holds the rendered extension state shared between the
// synchronization engine and the UI.
//
// # Overview
//
// The Store is the one place the "blocked" flag of every fixed extension, the
// custom extension list and the displayed count live. It plays the role a
// page's checkboxes and chip list play in a browser: whatever the store says
// is what the user sees.
//
// # Writers and Readers
//
//	Writer (engine loop):             Reader (UI):
//	┌────────────────────┐            ┌────────────────────┐
//	│ optimistic toggle  │            │                    │
//	│ snapshot / delta   │───────────→│ store.Snapshot()   │
//	│ rollback           │  (RWMutex) │      ↓             │
//	└────────────────────┘            │ render             │
//	                                  └────────────────────┘
//
// Only the synchronization engine mutates checkbox and list state, so there is
// a single authoritative writer. The push listener additionally records its
// connection state through SetConnection.
//
// # Copy Semantics
//
// Snapshot returns a View with its own slices. Callers may modify a View
// freely without affecting the store or other readers.
//
// # Catalog
//
// The store renders one checkbox per catalog entry. Names outside the catalog
// (for example a fixed extension the server knows but this client was not
// configured with) are dropped on write, the same way a missing checkbox
// would simply not be found.
package state

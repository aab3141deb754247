package ui

import "time"

const (
	// DefaultUIInterval is how often the header re-reads connection state.
	DefaultUIInterval = time.Second

	// RemoteCallTimeout bounds add and delete calls made from the UI.
	RemoteCallTimeout = 10 * time.Second

	// minContentWidth keeps panes readable on very narrow terminals.
	minContentWidth = 40

	// fixedColumnWidth is the width of one checkbox cell.
	fixedColumnWidth = 12
)

// User-facing messages.
const (
	msgCustomSaved    = "Custom extension saved."
	msgAddFailed      = "An error occurred while processing."
	msgDeleteFailed   = "Failed to delete."
	msgConfirmDelete  = "Delete the '%s' extension?"
	inputPlaceholder  = "e.g. sh"
	emptyCustomNotice = "No custom extensions yet."
)

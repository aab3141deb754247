package syncengine

import "github.com/five82/blockext/internal/extension"

// EventKind identifies what an Event reports.
type EventKind int

const (
	// EventStateChanged means the rendered state may have changed.
	EventStateChanged EventKind = iota + 1
	// EventCommitted means a batch was accepted by the server.
	EventCommitted
	// EventCommitFailed means a batch was rejected and has been rolled back.
	EventCommitFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state_changed"
	case EventCommitted:
		return "committed"
	case EventCommitFailed:
		return "commit_failed"
	default:
		return "unknown"
	}
}

// Event is published by the engine loop for the UI.
type Event struct {
	Kind    EventKind
	Batch   extension.Batch
	Message string // user-facing text for EventCommitFailed
	Err     error
}

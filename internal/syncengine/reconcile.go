package syncengine

import (
	"fmt"

	"github.com/five82/blockext/internal/extension"
	"github.com/five82/blockext/internal/state"
)

// Reconciler is the only writer of rendered extension state. It applies push
// messages, optimistic toggles and rollback corrections onto a state.Store.
type Reconciler struct {
	store *state.Store
}

// NewReconciler returns a reconciler writing to store.
func NewReconciler(store *state.Store) *Reconciler {
	return &Reconciler{store: store}
}

// Apply merges a push message into the rendered state.
//
// A snapshot replaces everything: all fixed extensions are unchecked before
// the listed ones are checked, the custom list is rebuilt in the given order
// and the count is taken as sent. A delta only touches fixed extensions;
// custom list and count stay as they are, since deltas never carry them.
func (r *Reconciler) Apply(msg extension.Message) error {
	switch msg.Kind {
	case extension.KindSnapshot:
		r.store.Replace(msg.Snapshot.Fixed, msg.Snapshot.Custom, msg.Snapshot.Count)
	case extension.KindDelta:
		r.store.SetFixed(true, msg.Delta.FixedAdded...)
		r.store.SetFixed(false, msg.Delta.FixedRemoved...)
		r.store.Touch()
	default:
		return fmt.Errorf("apply: %w: %s", extension.ErrUnknownMessage, msg.Kind)
	}
	return nil
}

// Toggle renders a user toggle before the server has confirmed it.
func (r *Reconciler) Toggle(name string, checked bool) {
	r.store.SetFixed(checked, name)
}

// Rollback undoes the optimistic rendering of a batch whose commit failed:
// names the batch checked become unchecked and vice versa, whatever their
// current state. A later snapshot or delta may supersede the correction.
func (r *Reconciler) Rollback(batch extension.Batch) {
	r.store.SetFixed(false, batch.Checked...)
	r.store.SetFixed(true, batch.Unchecked...)
}

// Package syncengine keeps the rendered extension state in step with the
// server while coalescing rapid checkbox toggles into batched writes.
//
// # Overview
//
// One Engine exists per session. It owns three pieces of state that nothing
// else touches:
//
//   - Pending: toggle intents not yet sent, last write per name wins
//   - the quiet-period timer that decides when Pending is flushed
//   - Reconciler: the single writer of rendered state in a state.Store
//
// # Event Loop
//
// Run merges three inputs in arrival order:
//
//	intents  (Add, Flush)         ─┐
//	results  (commit responses)   ─┼─> Run loop ─> Reconciler ─> state.Store
//	messages (Apply, from push)   ─┘        │
//	                                        └─> Events() ─> UI
//
// Add renders the toggle optimistically, queues it and restarts the timer.
// When the timer fires with no newer toggle, Pending is drained and the batch
// is committed on its own goroutine. Draining happens at dispatch, not on
// success, so toggles made while a request is in flight form a new batch.
//
// A failed commit is not retried. The batch is rolled back locally (checked
// names become unchecked and vice versa) and an EventCommitFailed carries the
// message to show. A push message arriving before or after the rollback may
// supersede it; both orders are accepted final states.
//
// # Known Gaps
//
// Rollback assumes the server applied none of a failed batch. If the server
// applies batches partially, names that did succeed are reverted locally until
// the next snapshot or delta corrects them.
//
// Deltas never carry custom extensions or the count. Those only change when a
// snapshot arrives.
//
// Messages have no sequence numbers, so they are neither reordered nor
// deduplicated.
package syncengine

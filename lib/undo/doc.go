// Package undo adds undo/redo functionality to any store.IStore.
//
// An undo.Store wraps another store. Mutations made through it (Add, Put, Remove) are
// forwarded to the wrapped store and, once they succeeded, recorded as an Action on the
// undo stack. Undo and Redo replay those actions against the same store.
//
// Updating Objects:
//
//	The wrapper cannot diff an object against its previous state by itself. Before an
//	existing object is changed with Put, the caller has to announce the change with
//	Changing, which keeps a snapshot of the object as it is now:
//
//	obj, _, _ := u.Get(ctx, "4")
//	_ = u.Changing(obj)
//	obj["square"] = true
//	_, err := u.Put(ctx, obj, nil)
//
//	A Put on an existing object without announcement fails with ErrChangingRequired.
//	Put on an identity the store does not know is a create and needs no announcement.
//
// History:
//
//   - Every successful mutation pushes one action onto the undo stack and clears the
//     redo stack. Failed mutations change neither stack.
//   - Undo(n) moves n actions from the undo to the redo stack, Redo(n) moves them back.
//   - A put action keeps a single snapshot. When it is replayed, the current state of
//     the object is read and becomes the snapshot for the opposite direction.
//   - Options.MaxDepth bounds the undo stack, the oldest action is evicted first.
//
// Failure Policy:
//
//   - Requesting more steps than recorded fails with ErrStackUnderflow before anything
//     is replayed.
//   - If a replay step fails, its action is pushed back onto the stack it came from. The
//     steps before it remain applied, the returned count tells how many.
//
// Thread Safety:
//
//	A Store is owned by one caller at a time. It does no locking, overlapping calls
//	(e.g. a Put during an Undo) corrupt the history. The history is kept in memory only
//	and is lost with the process.
//
// Metrics:
//
//	Every Store owns a metrics.Set (github.com/VictoriaMetrics/metrics) with counters for
//	recorded actions, replayed steps and failures plus gauges for the stack depths.
//	u.Metrics().WritePrometheus(w) writes them in the Prometheus text format.
package undo

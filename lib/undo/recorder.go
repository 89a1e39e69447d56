package undo

import "github.com/ValentinKolb/uKV/lib/entity"

// record pushes a new action onto the undo stack and invalidates the redo history.
// It must only be called after the mutation it describes succeeded.
func (u *Store) record(kind Kind, id string, payload entity.Object) {
	if u.undoStack.Push(Action{Kind: kind, ID: id, Payload: payload}) {
		u.metrics.evicted.Inc()
	}
	dropped := u.redoStack.Clear()
	u.metrics.recorded[kind].Inc()

	Logger.Debugf("recorded %s of %s (undo depth %d, dropped %d redo actions)", kind, id, u.undoStack.Len(), dropped)
}

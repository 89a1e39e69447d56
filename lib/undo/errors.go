package undo

import "github.com/ValentinKolb/uKV/lib/store"

// The errors carry a store.RetCode so that they survive the RPC layer (see store.CodeOf).
// Compare them with errors.Is.
var (
	// ErrChangingRequired is returned by Put for an existing object that was not announced with Changing.
	ErrChangingRequired = store.NewError(store.RetCInvalidOperation, "undo: must call Changing before a mutating Put")
	// ErrNoIdentity is returned by Changing for objects without identity.
	ErrNoIdentity = store.NewError(store.RetCInvalidOperation, "undo: object has no identity")
	// ErrStackUnderflow is returned by Undo and Redo when more steps are requested than recorded.
	ErrStackUnderflow = store.NewError(store.RetCInvalidOperation, "undo: not enough actions on the stack")
	// ErrReplay wraps the failure of a single Undo or Redo step.
	ErrReplay = store.NewError(store.RetCInternalError, "undo: replay failed")
	// ErrVanished is returned when a replayed Put finds its object gone from the store.
	ErrVanished = store.NewError(store.RetCNotFound, "undo: object vanished from the store")
)

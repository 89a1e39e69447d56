package undo

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("undo")

// Options configures the undo behavior
type Options struct {
	MaxDepth     int          // Maximum number of undo actions kept (0 = unlimited)
	Codec        entity.Codec // Codec used to take snapshots in Changing (default: json)
	MetricsLabel string       // Value of the store label of all metrics (default: "default")
}

// DefaultOptions returns the default undo options
func DefaultOptions() *Options {
	return &Options{
		MaxDepth:     0,
		Codec:        entity.NewJSONCodec(),
		MetricsLabel: "default",
	}
}

// Store wraps a store.IStore and records every mutation made through it so that it can
// be undone and redone.
//
// Thread-safety: Store is not thread-safe. Callers must serialize all calls, including
// overlapping Undo/Redo calls, because each replay step depends on the store state left
// by the previous one.
type Store struct {
	store     store.IStore
	cache     *changeCache
	undoStack *actionStack
	redoStack *actionStack
	metrics   *storeMetrics
}

// New creates an undo decorator for s with the specified options (optional).
func New(s store.IStore, opts *Options) *Store {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Codec == nil {
		opts.Codec = entity.NewJSONCodec()
	}
	if opts.MetricsLabel == "" {
		opts.MetricsLabel = "default"
	}

	u := &Store{
		store:     s,
		cache:     newChangeCache(opts.Codec),
		undoStack: newActionStack(opts.MaxDepth),
		redoStack: newActionStack(0),
	}
	u.metrics = newStoreMetrics(opts.MetricsLabel, u)
	return u
}

// Metrics returns the metrics set of this store.
func (u *Store) Metrics() *metrics.Set {
	return u.metrics.set
}

// --------------------------------------------------------------------------
// Mutation classification
// --------------------------------------------------------------------------

// putClass is the outcome of classifying a Put.
type putClass uint8

const (
	classCreate   putClass = iota // the object is new
	classUpdate                   // the object exists and its before image was captured
	classConflict                 // the object exists but nobody called Changing
)

// classify decides how a Put on id has to be treated.
// For updates the captured before image is returned as well.
func (u *Store) classify(ctx context.Context, id string) (putClass, entity.Object, error) {
	if id == "" {
		return classCreate, nil, nil
	}
	if old, ok := u.cache.lookup(id); ok {
		return classUpdate, old, nil
	}
	_, exists, err := u.store.Get(ctx, id)
	if err != nil {
		return classConflict, nil, err
	}
	if exists {
		return classConflict, nil, nil
	}
	return classCreate, nil, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

// Put creates or updates an object.
//
// Objects without identity, and objects whose identity is unknown to the store, are
// created. Updating an existing object requires a prior call to Changing with that
// object, otherwise ErrChangingRequired is returned and nothing is written.
func (u *Store) Put(ctx context.Context, obj entity.Object, dirs *store.PutDirectives) (string, error) {
	id := dirs.IDOf()
	if id == "" {
		id, _ = u.store.GetIdentity(obj)
	}

	class, old, err := u.classify(ctx, id)
	if err != nil {
		return "", fmt.Errorf("lookup object %s: %w", id, err)
	}

	switch class {
	case classCreate:
		stored, err := u.store.Add(ctx, obj, dirs)
		if err != nil {
			return "", err
		}
		newID, _ := u.store.GetIdentity(stored)
		u.record(KindAdd, newID, stored)
		return newID, nil

	case classUpdate:
		if _, err := u.store.Put(ctx, obj, dirs); err != nil {
			return "", err
		}
		u.cache.release(id)
		u.record(KindPut, id, old)
		return id, nil

	default:
		u.metrics.conflicts.Inc()
		return "", fmt.Errorf("%w (object %s)", ErrChangingRequired, id)
	}
}

// Add creates a new object and returns it as stored.
func (u *Store) Add(ctx context.Context, obj entity.Object, dirs *store.PutDirectives) (entity.Object, error) {
	stored, err := u.store.Add(ctx, obj, dirs)
	if err != nil {
		return nil, err
	}
	id, _ := u.store.GetIdentity(stored)
	u.record(KindAdd, id, stored)
	return stored, nil
}

// Remove removes the object with the given identity.
// The object is read first so that Undo can restore it. Removing an unknown identity
// fails with store.RetCNotFound and is not recorded.
func (u *Store) Remove(ctx context.Context, id string) (bool, error) {
	obj, found, err := u.store.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("read object %s before removal: %w", id, err)
	}
	if !found {
		return false, store.Errorf(store.RetCNotFound, "object %s not found", id)
	}

	removed, err := u.store.Remove(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		u.record(KindRemove, id, obj)
	}
	return removed, nil
}

// Get is passed through to the wrapped store.
func (u *Store) Get(ctx context.Context, id string) (entity.Object, bool, error) {
	return u.store.Get(ctx, id)
}

// GetIdentity is passed through to the wrapped store.
func (u *Store) GetIdentity(obj entity.Object) (string, bool) {
	return u.store.GetIdentity(obj)
}

// --------------------------------------------------------------------------
// Undo specific methods
// --------------------------------------------------------------------------

// Changing informs the store that obj is about to be changed.
// A snapshot of obj is kept as the before image of the next Put on its identity.
// It must be called before every Put that updates an existing object.
func (u *Store) Changing(obj entity.Object) error {
	id, ok := u.store.GetIdentity(obj)
	if !ok {
		return ErrNoIdentity
	}
	if err := u.cache.capture(id, obj); err != nil {
		return fmt.Errorf("snapshot object %s: %w", id, err)
	}
	return nil
}

// History describes the current state of the undo history.
type History struct {
	UndoDepth      int `json:"undo_depth"`
	RedoDepth      int `json:"redo_depth"`
	PendingChanges int `json:"pending_changes"`
}

// History returns the depth of both stacks and the number of announced but not yet written changes.
func (u *Store) History() History {
	return History{
		UndoDepth:      u.undoStack.Len(),
		RedoDepth:      u.redoStack.Len(),
		PendingChanges: u.cache.size(),
	}
}

// CanUndo reports whether there is at least one action to undo.
func (u *Store) CanUndo() bool {
	return u.undoStack.Len() > 0
}

// CanRedo reports whether there is at least one action to redo.
func (u *Store) CanRedo() bool {
	return u.redoStack.Len() > 0
}

// Clear forgets the whole history and all announced changes. The store is not touched.
func (u *Store) Clear() {
	u.undoStack.Clear()
	u.redoStack.Clear()
	u.cache.clear()
}

// compile time check
var _ store.IStore = (*Store)(nil)

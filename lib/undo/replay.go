package undo

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/uKV/lib/store"
)

// direction of a replay
type direction uint8

const (
	dirUndo direction = iota
	dirRedo
)

func (d direction) String() string {
	if d == dirUndo {
		return "undo"
	}
	return "redo"
}

// Undo reverses the last steps mutations (steps < 1 counts as 1) and returns how many
// steps were applied.
//
// The steps run one after another, each step starts only after the store calls of
// the previous one returned. If steps exceeds the undo depth nothing is done and
// ErrStackUnderflow is returned. If a step fails, its action is put back onto the undo
// stack, the steps before it stay applied and the error wraps ErrReplay.
// The context is checked before every step.
func (u *Store) Undo(ctx context.Context, steps int) (int, error) {
	return u.replay(ctx, dirUndo, steps)
}

// Redo re-applies the last steps undone mutations (steps < 1 counts as 1) and returns how
// many steps were applied. It follows the same rules as Undo.
func (u *Store) Redo(ctx context.Context, steps int) (int, error) {
	return u.replay(ctx, dirRedo, steps)
}

func (u *Store) replay(ctx context.Context, dir direction, steps int) (int, error) {
	if steps < 1 {
		steps = 1
	}

	src, dst := u.undoStack, u.redoStack
	if dir == dirRedo {
		src, dst = u.redoStack, u.undoStack
	}

	if available := src.Len(); steps > available {
		return 0, fmt.Errorf("%w: %s %d steps requested, %d available", ErrStackUnderflow, dir, steps, available)
	}

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return i, fmt.Errorf("%s stopped after %d of %d steps: %w", dir, i, steps, err)
		}

		action, _ := src.Pop()
		next, err := u.apply(ctx, dir, action)
		if err != nil {
			src.Push(action)
			u.metrics.failures.Inc()
			Logger.Warningf("%s step %d of %d failed for %s: %v", dir, i+1, steps, action, err)
			return i, fmt.Errorf("%w: %s step %d of %d (%s of %s): %w", ErrReplay, dir, i+1, steps, action.Kind, action.ID, err)
		}

		if dst.Push(next) {
			u.metrics.evicted.Inc()
		}
		if dir == dirUndo {
			u.metrics.undone.Inc()
		} else {
			u.metrics.redone.Inc()
		}
		Logger.Debugf("%s step %d of %d applied %s", dir, i+1, steps, action)
	}

	return steps, nil
}

// apply runs the store calls for one replay step and returns the action to push onto
// the opposite stack.
func (u *Store) apply(ctx context.Context, dir direction, action Action) (Action, error) {
	switch action.Kind {
	case KindPut:
		return u.swap(ctx, action)

	case KindAdd, KindRemove:
		// undoing an add and redoing a remove delete the object,
		// undoing a remove and redoing an add bring it back
		deletes := (action.Kind == KindAdd) == (dir == dirUndo)
		if deletes {
			removed, err := u.store.Remove(ctx, action.ID)
			if err != nil {
				return Action{}, err
			}
			if !removed {
				Logger.Warningf("%s of %s: object was already gone", dir, action)
			}
			return action, nil
		}
		if _, err := u.store.Add(ctx, action.Payload, &store.PutDirectives{ID: action.ID}); err != nil {
			return Action{}, err
		}
		return action, nil

	default:
		return Action{}, fmt.Errorf("unknown action kind %d", action.Kind)
	}
}

// swap writes the payload of a put action and returns the action carrying the state
// that was overwritten. The store only ever holds one side of an update, the other
// side is read right before it is replaced.
func (u *Store) swap(ctx context.Context, action Action) (Action, error) {
	current, found, err := u.store.Get(ctx, action.ID)
	if err != nil {
		return Action{}, err
	}
	if !found {
		return Action{}, ErrVanished
	}
	if _, err := u.store.Put(ctx, action.Payload, &store.PutDirectives{ID: action.ID}); err != nil {
		return Action{}, err
	}
	return Action{Kind: KindPut, ID: action.ID, Payload: current}, nil
}

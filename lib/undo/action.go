package undo

import (
	"fmt"
	"sync/atomic"

	"github.com/ValentinKolb/uKV/lib/entity"
)

// --------------------------------------------------------------------------
// Action
// --------------------------------------------------------------------------

// Kind is the kind of mutation an Action describes.
type Kind uint8

const (
	KindAdd    Kind = iota + 1 // An object was created, Payload is the object as stored
	KindPut                    // An object was replaced, Payload is the state on the other side of the replay
	KindRemove                 // An object was removed, Payload is the object right before removal
)

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindPut:
		return "put"
	case KindRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Action is a recorded, reversible description of one past mutation.
//
// On the undo stack an Action describes the forward mutation that happened and its
// Payload is what is needed to reverse it. On the redo stack the same Action
// describes a mutation that was reversed and its Payload is what is needed to apply
// it again. Only Put actions change their Payload when moving between the stacks.
type Action struct {
	Kind    Kind
	ID      string
	Payload entity.Object
}

func (a Action) String() string {
	return fmt.Sprintf("Action{Kind: %s, ID: %s}", a.Kind, a.ID)
}

// --------------------------------------------------------------------------
// Action Stack
// --------------------------------------------------------------------------

// actionStack is a LIFO of actions, optionally bounded.
// When a bounded stack is full, pushing evicts the oldest action.
//
// Thread-safety: not thread-safe, except for Len which may be read concurrently (metrics).
type actionStack struct {
	actions  []Action
	maxDepth int // 0 = unbounded
	size     atomic.Int64
}

func newActionStack(maxDepth int) *actionStack {
	return &actionStack{maxDepth: maxDepth}
}

// Push adds an action on top and reports whether the oldest action had to be evicted.
func (s *actionStack) Push(a Action) (evicted bool) {
	if s.maxDepth > 0 && len(s.actions) >= s.maxDepth {
		// drop the bottom element, keep the backing array from growing forever
		copy(s.actions, s.actions[1:])
		s.actions = s.actions[:len(s.actions)-1]
		evicted = true
	}
	s.actions = append(s.actions, a)
	s.size.Store(int64(len(s.actions)))
	return evicted
}

// Pop removes and returns the top action.
func (s *actionStack) Pop() (Action, bool) {
	if len(s.actions) == 0 {
		return Action{}, false
	}
	top := s.actions[len(s.actions)-1]
	s.actions[len(s.actions)-1] = Action{}
	s.actions = s.actions[:len(s.actions)-1]
	s.size.Store(int64(len(s.actions)))
	return top, true
}

// Peek returns the top action without removing it.
func (s *actionStack) Peek() (Action, bool) {
	if len(s.actions) == 0 {
		return Action{}, false
	}
	return s.actions[len(s.actions)-1], true
}

// Clear drops all actions and returns how many were dropped.
func (s *actionStack) Clear() int {
	n := len(s.actions)
	s.actions = nil
	s.size.Store(0)
	return n
}

// Len returns the number of actions on the stack.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (s *actionStack) Len() int {
	return int(s.size.Load())
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ValentinKolb/uKV/lib/entity"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// PutDirectives holds additional parameters of Add and Put.
type PutDirectives struct {
	// ID overrides the identity read from the object. Empty means "use the object's identity".
	ID string
}

// IDOf returns the explicit identity of the directives (empty for nil directives).
func (d *PutDirectives) IDOf() string {
	if d == nil {
		return ""
	}
	return d.ID
}

// IStore is the generic interface for interacting with an object store.
// Objects are addressed by a string identity that lives in a store defined property of the object.
// Every call may block, the context bounds how long a single call may take.
type IStore interface {
	// Get returns the object for an identity. The boolean return value indicates whether the object was found.
	Get(ctx context.Context, id string) (obj entity.Object, loaded bool, err error)
	// Add inserts a new object and returns it as stored (including an assigned identity).
	// Add fails with RetCAlreadyExists if the identity is already taken.
	Add(ctx context.Context, obj entity.Object, dirs *PutDirectives) (stored entity.Object, err error)
	// Put inserts or replaces an object and returns its identity.
	// Objects without identity are assigned a new one.
	Put(ctx context.Context, obj entity.Object, dirs *PutDirectives) (id string, err error)
	// Remove deletes the object with the given identity. The boolean reports whether an object was removed.
	Remove(ctx context.Context, id string) (removed bool, err error)
	// GetIdentity returns the identity of an object. The boolean is false if the object has none.
	GetIdentity(obj entity.Object) (id string, ok bool)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new StoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// Errorf creates a new StoreError with the given code and a formatted message.
func Errorf(code RetCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// CodeOf returns the return code carried by err, RetCInternalError for foreign errors
// and RetCSuccess for nil.
func CodeOf(err error) RetCode {
	if err == nil {
		return RetCSuccess
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return RetCInternalError
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the store.
	RetCInvalidOperation                    // 3: Invalid operation.
	RetCNotFound                            // 4: No object with the given identity.
	RetCAlreadyExists                       // 5: An object with the given identity already exists.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCNotFound:
		return "NotFound"
	case RetCAlreadyExists:
		return "AlreadyExists"
	default:
		return "Unknown"
	}
}

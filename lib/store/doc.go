// Package store provides a high-level interface for object storage operations
// with unified error handling. It is the collaborator wrapped by the undo package:
// everything the undo decorator does to the data goes through IStore.
//
// The package focuses on:
//   - A unified interface (IStore) for object operations across different backends
//   - Typed return codes instead of free-form errors
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining Get, Add, Put, Remove and
//     GetIdentity. All implementations share this interface, allowing the undo
//     decorator and the RPC server to work with any backend.
//
//   - Error System: A structured error reporting mechanism using typed error codes
//     (RetCNotFound, RetCAlreadyExists, ...) and descriptive messages. Use CodeOf to
//     read the code of a (possibly wrapped) error.
//
//   - PutDirectives: Optional parameters of Add and Put (an explicit identity).
//
// Implementations:
//
//	- Local Store (lstore): An in-memory store keeping encoded objects in a
//	  concurrent map. Identities are assigned from an atomic counter.
//	  Available in the "github.com/ValentinKolb/uKV/lib/store/lstore" package.
//
//	- Pebble Store (pstore): A persistent store on top of a pebble LSM database.
//	  Identities are assigned as random UUIDs.
//	  Available in the "github.com/ValentinKolb/uKV/lib/store/pstore" package.
//
// Both implementations are checked by the shared conformance suite in
// "github.com/ValentinKolb/uKV/lib/store/testing".
package store

// Package lstore implements a local, in-memory, single-node object store based on the
// store.IStore interface. Data is stored entirely in memory and is not persisted
// between process restarts.
//
// Key Features:
//   - Pure in-memory storage without persistence
//   - Objects are kept encoded (see entity.Codec), every Get returns an independent copy
//   - Automatic identity assignment using an atomic counter
//   - Thread-safe operations for concurrent access
//
// Implementation Details:
//
//   - Identity Management: The store maintains an atomic counter that is incremented
//     whenever an object without identity is stored. The counter value, formatted in
//     base 10, becomes the object's identity. Counter values that collide with
//     explicitly chosen identities are skipped.
//
//   - Storage: Objects live in a xsync.MapOf keyed by identity. Add relies on
//     LoadOrStore so that two concurrent adds of the same identity cannot both win.
//
// Usage Example:
//
//	s := lstore.NewLocalStore(nil)
//
//	stored, err := s.Add(ctx, entity.Object{"name": "alice"}, nil)
//	id, _ := s.GetIdentity(stored) // "1"
//
//	obj, found, err := s.Get(ctx, id)
//
// Suitable Use Cases:
//
//	The local store is ideal for:
//	- Ephemeral data that doesn't need to survive process restarts
//	- Testing and development environments
//	- The default backend of an undo.Store in the uKV server
package lstore

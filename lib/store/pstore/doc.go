// Package pstore implements a persistent object store based on the store.IStore
// interface, backed by a pebble LSM database.
//
// Objects are encoded with an entity.Codec and written under the key "o/<id>".
// Objects stored without identity get a random UUID. Writes are serialized by a
// mutex because pebble offers no compare-and-set: Add has to check that the
// identity is free and Remove has to report whether the object existed.
//
// Usage Example:
//
//	s, err := pstore.Open(pstore.Options{Dir: "data/100"})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	id, err := s.Put(ctx, entity.Object{"name": "alice"}, nil)
//
// Only the objects are persisted. An undo.Store wrapping a pebble store still keeps
// its history in memory.
package pstore

// Package entity defines the opaque record type handled by the stores and the undo
// decorator, together with the codecs used to persist objects and to take snapshots.
//
// An Object is a plain map of field names to values. The stores never interpret an
// object beyond its identity property, which is read with IdentityOf.
//
// Snapshots:
//
//	A snapshot is a deep, independent copy of an object. Snapshots are produced by
//	encoding an object with a Codec and decoding the result again (see Clone). Values
//	therefore take the shape the codec produces (e.g. JSON numbers become float64).
package entity

// Package testing provides a reusable conformance suite for store.IStore implementations.
//
// Every store implementation runs the same suite from its own _test.go file:
//
//	func Test(t *testing.T) {
//		storetesting.RunStoreTests(t, "LocalStore", func() store.IStore {
//			return lstore.NewLocalStore(nil)
//		})
//	}
//
// The suite covers the contract the undo decorator relies on: Add must reject taken
// identities, Put must upsert, Get must hand out independent copies and Remove must
// report whether something was removed.
package testing

package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/ValentinKolb/uKV/lib/store"
)

// StoreFactory is a function that creates a new instance of a IStore implementation
type StoreFactory func() store.IStore

// RunStoreTests runs the conformance suite for an IStore implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Add&Get", func(t *testing.T) {
			testAddGet(t, factory())
		})

		t.Run("AddExisting", func(t *testing.T) {
			testAddExisting(t, factory())
		})

		t.Run("PutUpsert", func(t *testing.T) {
			testPutUpsert(t, factory())
		})

		t.Run("PutDirectives", func(t *testing.T) {
			testPutDirectives(t, factory())
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory())
		})

		t.Run("IndependentCopies", func(t *testing.T) {
			testIndependentCopies(t, factory())
		})

		t.Run("Canceled", func(t *testing.T) {
			testCanceled(t, factory())
		})

		t.Run("Concurrent", func(t *testing.T) {
			testConcurrent(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testAddGet(t *testing.T, s store.IStore) {
	ctx := context.Background()

	stored, err := s.Add(ctx, entity.Object{"name": "alice"}, nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	id, ok := s.GetIdentity(stored)
	if !ok {
		t.Fatalf("Expected Add to assign an identity, got %v", stored)
	}

	obj, found, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatalf("Expected object %s to exist after Add", id)
	}
	if obj["name"] != "alice" {
		t.Errorf("Expected name alice, got %v", obj["name"])
	}

	_, found, err = s.Get(ctx, "nonexistent-id")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Errorf("Expected nonexistent id to return found=false")
	}

	// explicit identities are kept
	stored, err = s.Add(ctx, entity.Object{"id": "explicit", "name": "bob"}, nil)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id, _ := s.GetIdentity(stored); id != "explicit" {
		t.Errorf("Expected identity explicit, got %s", id)
	}
}

func testAddExisting(t *testing.T, s store.IStore) {
	ctx := context.Background()

	if _, err := s.Add(ctx, entity.Object{"id": "1", "v": "first"}, nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	_, err := s.Add(ctx, entity.Object{"id": "1", "v": "second"}, nil)
	if store.CodeOf(err) != store.RetCAlreadyExists {
		t.Fatalf("Expected RetCAlreadyExists, got %v", err)
	}

	obj, _, _ := s.Get(ctx, "1")
	if obj["v"] != "first" {
		t.Errorf("Expected failed Add to leave the object untouched, got %v", obj["v"])
	}
}

func testPutUpsert(t *testing.T, s store.IStore) {
	ctx := context.Background()

	id, err := s.Put(ctx, entity.Object{"v": "one"}, nil)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if id == "" {
		t.Fatalf("Expected Put to assign an identity")
	}

	id2, err := s.Put(ctx, entity.Object{"id": id, "v": "two"}, nil)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if id2 != id {
		t.Errorf("Expected Put to keep identity %s, got %s", id, id2)
	}

	obj, found, _ := s.Get(ctx, id)
	if !found || obj["v"] != "two" {
		t.Errorf("Expected v=two after Put, got %v (found=%v)", obj, found)
	}
}

func testPutDirectives(t *testing.T, s store.IStore) {
	ctx := context.Background()

	id, err := s.Put(ctx, entity.Object{"id": "ignored", "v": 1}, &store.PutDirectives{ID: "override"})
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if id != "override" {
		t.Fatalf("Expected directive identity override, got %s", id)
	}

	obj, found, _ := s.Get(ctx, "override")
	if !found {
		t.Fatalf("Expected object under directive identity")
	}
	if got, _ := s.GetIdentity(obj); got != "override" {
		t.Errorf("Expected stored identity override, got %s", got)
	}

	if _, found, _ := s.Get(ctx, "ignored"); found {
		t.Errorf("Expected no object under the object's own identity")
	}
}

func testRemove(t *testing.T, s store.IStore) {
	ctx := context.Background()

	id, err := s.Put(ctx, entity.Object{"v": "x"}, nil)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	removed, err := s.Remove(ctx, id)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !removed {
		t.Errorf("Expected Remove to report removed=true")
	}

	if _, found, _ := s.Get(ctx, id); found {
		t.Errorf("Expected object %s to be gone after Remove", id)
	}

	removed, err = s.Remove(ctx, id)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed {
		t.Errorf("Expected second Remove to report removed=false")
	}
}

func testIndependentCopies(t *testing.T, s store.IStore) {
	ctx := context.Background()

	src := entity.Object{"id": "c", "v": "orig"}
	if _, err := s.Put(ctx, src, nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	src["v"] = "changed-after-put"

	obj, _, _ := s.Get(ctx, "c")
	if obj["v"] != "orig" {
		t.Errorf("Expected store to be unaffected by caller mutation, got %v", obj["v"])
	}

	obj["v"] = "changed-after-get"
	again, _, _ := s.Get(ctx, "c")
	if again["v"] != "orig" {
		t.Errorf("Expected Get to return independent copies, got %v", again["v"])
	}
}

func testCanceled(t *testing.T, s store.IStore) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Put(ctx, entity.Object{"v": 1}, nil); err == nil {
		t.Errorf("Expected Put with canceled context to fail")
	}
	if _, _, err := s.Get(ctx, "1"); err == nil {
		t.Errorf("Expected Get with canceled context to fail")
	}
}

func testConcurrent(t *testing.T, s store.IStore) {
	ctx := context.Background()

	numWorkers := 8
	perWorker := 100

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]bool)
	)
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(workerId int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				stored, err := s.Add(ctx, entity.Object{"worker": fmt.Sprint(workerId)}, nil)
				if err != nil {
					t.Errorf("Add failed: %v", err)
					return
				}
				id, _ := s.GetIdentity(stored)

				mu.Lock()
				if ids[id] {
					t.Errorf("Identity %s assigned twice", id)
				}
				ids[id] = true
				mu.Unlock()
			}
		}(w)
	}

	wg.Wait()

	if len(ids) != numWorkers*perWorker {
		t.Errorf("Expected %d distinct identities, got %d", numWorkers*perWorker, len(ids))
	}
}

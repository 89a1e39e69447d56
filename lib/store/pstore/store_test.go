package pstore

import (
	"context"
	"testing"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/ValentinKolb/uKV/lib/store"
	storetesting "github.com/ValentinKolb/uKV/lib/store/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemStore(t *testing.T) *Store {
	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "PebbleStore", func() store.IStore {
		return newMemStore(t)
	})
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(Options{Dir: dir, Sync: true})
	require.NoError(t, err)
	id, err := s.Put(ctx, entity.Object{"name": "alice"}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(Options{Dir: dir})
	require.NoError(t, err)
	defer s.Close()

	obj, found, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "alice", obj["name"])
}

func TestOpenWithoutDir(t *testing.T) {
	_, err := Open(Options{})
	assert.Equal(t, store.RetCInvalidOperation, store.CodeOf(err))
}

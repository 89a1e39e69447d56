package client

import (
	"context"
	"errors"
	"testing"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/lib/undo"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/serializer"
	"github.com/ValentinKolb/uKV/rpc/server"
	"github.com/ValentinKolb/uKV/rpc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loopback connects a client directly to the handler of a server
type loopback struct {
	handler transport.ServerHandleFunc
}

func (l *loopback) RegisterHandler(handler transport.ServerHandleFunc) { l.handler = handler }
func (l *loopback) RegisterMetrics(_, _ transport.MetricsWriteFunc) {}
func (l *loopback) Listen(common.ServerConfig) error { return nil }
func (l *loopback) Connect(common.ClientConfig) error { return nil }
func (l *loopback) Close() error { return nil }
func (l *loopback) Send(ctx context.Context, shardId uint64, req []byte) ([]byte, error) {
	return l.handler(ctx, shardId, req), nil
}

func newTestClient(t *testing.T) *UndoStore {
	t.Helper()
	lb := &loopback{}
	srv := server.NewRPCServer(common.ServerConfig{
		Shards:   []common.ServerShard{{ShardID: 1, Type: common.ShardTypeLocalStore}},
		LogLevel: "error",
	}, lb, serializer.NewGOBSerializer())
	require.NoError(t, srv.Serve())
	t.Cleanup(func() { _ = srv.Close() })

	s, err := NewRPCStore(1, common.ClientConfig{}, lb, serializer.NewGOBSerializer())
	require.NoError(t, err)
	return s
}

func TestRemoteUndoRedo(t *testing.T) {
	ctx := context.Background()
	s := newTestClient(t)

	obj, err := s.Add(ctx, entity.Object{"name": "square"}, &store.PutDirectives{ID: "4"})
	require.NoError(t, err)
	assert.Equal(t, "4", obj["id"])

	require.NoError(t, s.Changing(ctx, obj))
	obj["name"] = "circle"
	id, err := s.Put(ctx, obj, nil)
	require.NoError(t, err)
	assert.Equal(t, "4", id)

	applied, err := s.Undo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	got, ok, err := s.Get(ctx, "4")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "square", got["name"])

	applied, err = s.Redo(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	got, _, err = s.Get(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "circle", got["name"])

	history, err := s.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, undo.History{UndoDepth: 2}, history)

	removed, err := s.Remove(ctx, "4")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestRemoteErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestClient(t)

	// underflow
	applied, err := s.Undo(ctx, 1)
	assert.Equal(t, 0, applied)
	assert.True(t, errors.Is(err, undo.ErrStackUnderflow))
	assert.Equal(t, store.RetCInvalidOperation, store.CodeOf(err))

	// changing required
	_, err = s.Add(ctx, entity.Object{"id": "a"}, nil)
	require.NoError(t, err)
	_, err = s.Put(ctx, entity.Object{"id": "a", "n": "x"}, nil)
	assert.True(t, errors.Is(err, undo.ErrChangingRequired))

	// no identity
	err = s.Changing(ctx, entity.Object{"n": "x"})
	assert.True(t, errors.Is(err, undo.ErrNoIdentity))

	// not found
	_, err = s.Remove(ctx, "missing")
	assert.Equal(t, store.RetCNotFound, store.CodeOf(err))
	assert.False(t, errors.Is(err, undo.ErrVanished))
}

func TestGetIdentity(t *testing.T) {
	s := &UndoStore{}
	id, ok := s.GetIdentity(entity.Object{"id": "x"})
	assert.True(t, ok)
	assert.Equal(t, "x", id)
}

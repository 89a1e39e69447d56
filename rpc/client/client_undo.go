package client

import (
	"context"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/lib/undo"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/serializer"
	"github.com/ValentinKolb/uKV/rpc/transport"
)

// NewRPCStore creates a new RPC undo store
// The function takes a shard ID, a config, a transport and a serializer as parameters
// It returns an *UndoStore and an error
func NewRPCStore(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*UndoStore, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC store
	return &UndoStore{
		rpcClientAdapter{
			shardId:    shardId,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}, nil
}

// UndoStore is the client side of a remote undo.Store.
// It implements store.IStore plus the undo operations.
type UndoStore struct {
	rpcClientAdapter
}

var _ store.IStore = (*UndoStore)(nil)

// Close closes the underlying transport
func (i *UndoStore) Close() error {
	return i.transport.Close()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *UndoStore) Get(ctx context.Context, id string) (entity.Object, bool, error) {
	resp, err := i.invokeRPCRequest(ctx, common.NewGetRequest(id))
	if err != nil {
		return nil, false, err
	}
	return resp.Object, resp.Ok, nil
}

func (i *UndoStore) Add(ctx context.Context, obj entity.Object, dirs *store.PutDirectives) (entity.Object, error) {
	resp, err := i.invokeRPCRequest(ctx, common.NewAddRequest(obj, dirs.IDOf()))
	if err != nil {
		return nil, err
	}
	return resp.Object, nil
}

func (i *UndoStore) Put(ctx context.Context, obj entity.Object, dirs *store.PutDirectives) (string, error) {
	resp, err := i.invokeRPCRequest(ctx, common.NewPutRequest(obj, dirs.IDOf()))
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (i *UndoStore) Remove(ctx context.Context, id string) (bool, error) {
	resp, err := i.invokeRPCRequest(ctx, common.NewRemoveRequest(id))
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

// GetIdentity reads the identity from the default identity property, the server uses the same
func (i *UndoStore) GetIdentity(obj entity.Object) (string, bool) {
	return entity.IdentityOf(obj, entity.DefaultIDProperty)
}

// --------------------------------------------------------------------------
// Undo Methods (docu see undo.Store)
// --------------------------------------------------------------------------

func (i *UndoStore) Changing(ctx context.Context, obj entity.Object) error {
	_, err := i.invokeRPCRequest(ctx, common.NewChangingRequest(obj))
	return err
}

func (i *UndoStore) Undo(ctx context.Context, steps int) (int, error) {
	return i.replay(ctx, common.NewUndoRequest(steps))
}

func (i *UndoStore) Redo(ctx context.Context, steps int) (int, error) {
	return i.replay(ctx, common.NewRedoRequest(steps))
}

func (i *UndoStore) History(ctx context.Context) (undo.History, error) {
	resp, err := i.invokeRPCRequest(ctx, common.NewHistoryRequest())
	if err != nil {
		return undo.History{}, err
	}
	if resp.History == nil {
		return undo.History{}, nil
	}
	return *resp.History, nil
}

// replay sends an undo or redo request and returns the number of applied steps (also on error)
func (i *UndoStore) replay(ctx context.Context, req *common.Message) (int, error) {
	resp, err := i.invokeRPCRequest(ctx, req)
	if resp == nil {
		return 0, err
	}
	return resp.Steps, err
}

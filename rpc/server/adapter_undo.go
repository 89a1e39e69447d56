package server

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/lib/undo"
	"github.com/ValentinKolb/uKV/rpc/common"
)

func NewUndoServerAdapter() IRPCServerAdapter {
	return &undoServerAdapterImpl{}
}

type undoServerAdapterImpl struct{}

func (adapter *undoServerAdapterImpl) Handle(ctx context.Context, req *common.Message, u *undo.Store) *common.Message {
	// Check for nil store
	if u == nil {
		return common.NewErrorResponse("handler: store is nil")
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTGet:
		obj, ok, err := u.Get(ctx, req.ID)
		return common.NewGetResponse(obj, ok, err)
	case common.MsgTAdd:
		stored, err := u.Add(ctx, req.Object, directives(req.ID))
		return common.NewAddResponse(stored, err)
	case common.MsgTPut:
		id, err := u.Put(ctx, req.Object, directives(req.ID))
		return common.NewPutResponse(id, err)
	case common.MsgTRemove:
		ok, err := u.Remove(ctx, req.ID)
		return common.NewRemoveResponse(ok, err)
	case common.MsgTChanging:
		return common.NewChangingResponse(u.Changing(req.Object))
	case common.MsgTUndo:
		applied, err := u.Undo(ctx, req.Steps)
		return common.NewReplayResponse(common.MsgTUndo, applied, u.History(), err)
	case common.MsgTRedo:
		applied, err := u.Redo(ctx, req.Steps)
		return common.NewReplayResponse(common.MsgTRedo, applied, u.History(), err)
	case common.MsgTHistory:
		return common.NewHistoryResponse(u.History())
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC UndoAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}

// directives turns the optional identity of a request into put directives
func directives(id string) *store.PutDirectives {
	if id == "" {
		return nil
	}
	return &store.PutDirectives{ID: id}
}

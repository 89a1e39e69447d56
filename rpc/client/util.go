package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/lib/undo"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/serializer"
	"github.com/ValentinKolb/uKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
type rpcClientAdapter struct {
	shardId    uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// RemoteError is an error reported by the server.
// It unwraps to the matching undo error (if any) and to a store.Error with the remote return code,
// so errors.Is and store.CodeOf work the same way as for a local undo.Store.
type RemoteError struct {
	Code store.RetCode
	Msg  string
}

// remoteErrors are the errors a RemoteError can unwrap to
var remoteErrors = []*store.Error{
	undo.ErrChangingRequired,
	undo.ErrNoIdentity,
	undo.ErrStackUnderflow,
	undo.ErrReplay,
	undo.ErrVanished,
}

func (e *RemoteError) Error() string {
	return e.Msg
}

func (e *RemoteError) Unwrap() []error {
	errs := []error{store.NewError(e.Code, e.Msg)}
	for _, known := range remoteErrors {
		if strings.Contains(e.Msg, known.Msg) {
			errs = append(errs, known)
		}
	}
	return errs
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests
// It takes a shard ID, a request message, a transport layer and a serializer as parameters
// It returns a response message and an error if any occurs.
// If the server reported an error the response is returned together with a *RemoteError,
// so that partial results (e.g. the applied steps of an undo) are not lost
func (a *rpcClientAdapter) invokeRPCRequest(ctx context.Context, req *common.Message) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := a.serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	// Send the request
	respBytes, err := a.transport.Send(ctx, a.shardId, reqBytes)
	if err != nil {
		return nil, err
	}

	// Deserialize the response
	resp := &common.Message{}
	err = a.serializer.Deserialize(respBytes, resp)
	if err != nil {
		return nil, fmt.Errorf("RPC UndoStore - Error: %s", err)
	}

	// Check if the response is an error response
	if resp.MsgType == common.MsgTError || resp.Err != "" {
		code := resp.Code
		if code == store.RetCSuccess {
			code = store.RetCInternalError
		}
		return resp, &RemoteError{Code: code, Msg: resp.Err}
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType {
		return nil, fmt.Errorf("RPC UndoStore - Unexpected message type: %s, expected %s", resp.MsgType, req.MsgType)
	}

	// Return the response
	return resp, nil
}

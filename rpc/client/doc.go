// Package client implements the RPC client of uKV.
//
// NewRPCStore creates an UndoStore, a client that implements store.IStore plus
// Changing, Undo, Redo and History of a remote undo.Store. Every call is one
// request to the configured shard.
//
// Errors reported by the server are returned as *RemoteError. A RemoteError
// unwraps to the matching undo error, so
//
//	errors.Is(err, undo.ErrStackUnderflow)
//
// works the same way for a remote and a local store, and store.CodeOf returns
// the return code reported by the server.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  Endpoints:     []string{"http://localhost:8080"},
//	  TimeoutSecond: 5,
//	  RetryCount:    3,
//	}
//
//	s, err := client.NewRPCStore(1, config, http.NewHttpClientTransport(), serializer.NewJSONSerializer())
//	if err != nil {
//	  // handle error
//	}
//	defer s.Close()
//
//	obj, _ := s.Add(ctx, entity.Object{"name": "square"}, nil)
//	_ = s.Changing(ctx, obj)
//	obj["name"] = "circle"
//	_, _ = s.Put(ctx, obj, nil)
//	_, _ = s.Undo(ctx, 1) // the name is "square" again
package client

// Package server implements the uKV RPC server. Every shard of the server is an
// undo.Store on top of a local (in memory) or a pebble (on disk) backing store.
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against an undo.Store.
//
//   - NewUndoServerAdapter: Factory function creating the adapter that translates
//     RPC requests to undo.Store method calls (store operations plus Changing,
//     Undo, Redo and History).
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Shards: []common.ServerShard{
//	    {ShardID: 100, Type: common.ShardTypeLocalStore},
//	    {ShardID: 200, Type: common.ShardTypePebbleStore},
//	  },
//	  DataDir: "./data",
//	  Endpoint: "0.0.0.0:8080",
//	  TimeoutSecond: 5,
//	  LogLevel: "info",
//	}
//
//	s := server.NewRPCServer(
//	  config,
//	  http.NewHttpServerTransport(),
//	  serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Metrics:
//
//	The server hands two metric writers to the transport: the prometheus writer
//	emits the process metrics plus the counters and gauges of every undo store,
//	the json writer emits the request timers (one per shard and message type).
//
// Thread Safety:
//
//	Requests for different shards are handled concurrently. Requests for the same
//	shard are serialized by a per shard mutex, so an undo or redo of several steps
//	is never interleaved with other mutations of that shard.
package server

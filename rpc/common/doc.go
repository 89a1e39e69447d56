// Package common provides the data structures shared by the uKV RPC client and
// server.
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication. Includes factory
//     methods for the request and response of every operation. Errors travel as
//     text plus the store.RetCode of the error.
//
//   - MessageType: Enumeration of all supported operations (store operations,
//     undo operations and control messages).
//
//   - ServerConfig: Configuration of a server (shards, storage, history depth,
//     endpoint and logging).
//
//   - ClientConfig: Configuration for client components, controlling connection
//     parameters, timeouts, and retry behavior.
//
//   - Logger: Custom logger factory for the dragonboat logger package, giving
//     all uKV loggers a consistent format.
package common

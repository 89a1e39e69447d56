// Package rpc provides remote access to undo stores. It is the communication
// layer between the ukv CLI (or any other client) and a ukv server.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with an HTTP implementation.
//
//   - serializer: Message serialization (JSON, GOB) for converting between
//     Message objects and byte arrays.
//
//   - client: RPC client for remote undo stores, allowing applications to
//     interact with a remote history transparently.
//
//   - server: RPC server that hosts one undo store per shard and handles
//     incoming requests.
package rpc

// Package transport defines the interfaces for RPC communication between uKV
// clients and servers. Transports move opaque byte slices, the encoding of
// messages is left to the serializer package.
//
// Key Components:
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receives requests and routes them to appropriate handlers.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
//
// Implementations:
//
//   - http: one POST request per message, also serves the metrics endpoints.
//
//   - tcp, unix: framed messages on long lived sockets (see sub package base).
package transport

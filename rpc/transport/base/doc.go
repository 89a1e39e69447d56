// Package base implements the protocol independent part of the socket
// transports (see sub packages tcp and unix). Requests and responses are
// exchanged as frames on long lived connections.
//
// Frame format (big endian):
//
//	8 bytes shardId | 8 bytes requestID | 4 bytes length | payload
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific
//     operations (dial, listen, socket options).
//
//   - clientTransport: Keeps ConnectionsPerEndpoint connections per endpoint and
//     picks one round-robin per request. Responses are matched to requests by
//     their requestID, so many requests can share a connection. A reader
//     goroutine per connection restores it after failures.
//
//   - serverTransport: Accepts connections and runs the handler for every frame
//     in a bounded worker pool per connection. Read buffers are pooled.
//
// Retries:
//
//	A request is only retried on another connection if its frame could not
//	be written. Once a frame is written the server may apply it, so a lost
//	response or a timeout is returned to the caller instead.
package base

// Package http implements the HTTP transport layer for uKV RPC communication.
//
// Key Components:
//
//   - httpClientTransport: Implements IRPCClientTransport. Requests are sent as
//     POST /{shardId} and distributed round-robin across the configured
//     endpoints. Attempts that could not connect are retried on the next
//     endpoint, requests that reached a server are never sent twice.
//
//   - httpServerTransport: Implements IRPCServerTransport. Routes POST /{shardId}
//     to the registered handler and bounds every request by the configured
//     timeout. If metrics writers are registered it also serves
//     GET /metrics (prometheus text format) and GET /debug/metrics (json).
//
// Thread Safety:
//
//	The client transport can be used concurrently. It uses an atomic
//	round-robin counter to select server endpoints.
package http

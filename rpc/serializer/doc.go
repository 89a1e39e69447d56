// Package serializer provides message serialization for the uKV RPC system.
// It defines a common interface and two implementations for encoding the
// messages exchanged between client and server.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - jsonSerializerImpl: JSON encoding. Human readable and the default of the
//     CLI. Note that JSON decodes every number inside an object as float64.
//
//   - gobSerializerImpl: Go's gob encoding. Keeps the Go types of object fields
//     (int stays int) but produces larger payloads for small messages.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	serializer := serializer.NewJSONSerializer()
//	data, err := serializer.Serialize(message)
//	// ... send data ...
//	var receivedMsg common.Message
//	err = serializer.Deserialize(receivedData, &receivedMsg)
package serializer

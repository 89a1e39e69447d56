package serializer

import (
	"fmt"

	"github.com/ValentinKolb/uKV/rpc/common"
)

// IRPCSerializer is the interface for all Message Serializers
type IRPCSerializer interface {
	// Serialize serializes a Message into a byte array
	// It returns the serialized byte array and an error if any
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize deserializes a byte array into a Message
	// The message is reset before decoding, so it can be reused
	// It returns an error if the payload is corrupt or carries no known message type
	Deserialize(b []byte, msg *common.Message) error
}

// checkMessage rejects messages no handler can process
func checkMessage(msg *common.Message) error {
	if msg.MsgType == common.MsgTUnknown || msg.MsgType > common.MsgTHistory {
		return fmt.Errorf("invalid message type %d", msg.MsgType)
	}
	return nil
}

package serializer

import (
	"encoding/json"

	"github.com/ValentinKolb/uKV/rpc/common"
)

// NewJSONSerializer creates a new serializer using json encoding
func NewJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IRPCSerializer interface using json encoding.
// Numbers inside an object are decoded as float64.
type jsonSerializerImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	if err := checkMessage(&msg); err != nil {
		return nil, err
	}
	return json.Marshal(msg)
}

func (j jsonSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	// json merges into a non nil Object, so fields of a reused message would survive
	*msg = common.Message{}
	if err := json.Unmarshal(b, msg); err != nil {
		return err
	}
	return checkMessage(msg)
}

package serializer

import (
	"testing"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/lib/undo"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON": NewJSONSerializer,
	"GOB":  NewGOBSerializer,
}

// testMessages creates a set of test messages with different fields filled.
// Objects only hold strings, bools and float64 so that they survive json unchanged.
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just a type
		{MsgType: common.MsgTSuccess},

		// Add request with explicit identity
		{
			MsgType: common.MsgTAdd,
			ID:      "4",
			Object:  entity.Object{"name": "square", "filled": true},
		},

		// Get response
		{
			MsgType: common.MsgTGet,
			Object:  entity.Object{"id": "4", "name": "square", "size": 2.5},
			Ok:      true,
		},

		// Replay response
		{
			MsgType: common.MsgTUndo,
			Steps:   2,
			History: &undo.History{UndoDepth: 1, RedoDepth: 2, PendingChanges: 3},
		},

		// Error response
		{
			MsgType: common.MsgTError,
			Err:     "test error message",
			Code:    store.RetCInvalidOperation,
		},

		// Nested object
		{
			MsgType: common.MsgTPut,
			ID:      "tree",
			Object: entity.Object{
				"id":       "tree",
				"children": []any{"a", "b"},
				"meta":     map[string]any{"owner": "alice"},
			},
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				data, err := serializer.Serialize(msg)
				require.NoError(t, err, "serialize message %d", i)

				var result common.Message
				require.NoError(t, serializer.Deserialize(data, &result), "deserialize message %d", i)

				assert.Equal(t, msg, result, "message %d doesn't match after round trip", i)
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// MsgTUnknown is rejected, see TestUnknownMessageType
			for msgType := common.MsgTSuccess; msgType <= common.MsgTHistory; msgType++ {
				data, err := serializer.Serialize(common.Message{MsgType: msgType})
				require.NoError(t, err, "serialize %s", msgType)

				var result common.Message
				require.NoError(t, serializer.Deserialize(data, &result), "deserialize %s", msgType)
				assert.Equal(t, msgType, result.MsgType)
			}
		})
	}
}

// TestInvalidData tests that corrupt payloads are reported as errors
func TestInvalidData(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			var msg common.Message
			assert.Error(t, factory().Deserialize([]byte{0xff, 0x00, 0x13}, &msg))
		})
	}
}

// TestUnknownMessageType tests that messages without a known type are rejected in both directions
func TestUnknownMessageType(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			_, err := serializer.Serialize(common.Message{ID: "4"})
			assert.Error(t, err)
			_, err = serializer.Serialize(common.Message{MsgType: common.MsgTHistory + 1})
			assert.Error(t, err)
		})
	}

	var msg common.Message
	assert.Error(t, NewJSONSerializer().Deserialize([]byte(`{"id":"4"}`), &msg))
}

// TestDeserializeReusedMessage tests that decoding into a used message leaves nothing of the old one
func TestDeserializeReusedMessage(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			first, err := serializer.Serialize(common.Message{
				MsgType: common.MsgTGet,
				ID:      "4",
				Object:  entity.Object{"id": "4", "color": "red"},
				Ok:      true,
			})
			require.NoError(t, err)
			second, err := serializer.Serialize(common.Message{
				MsgType: common.MsgTPut,
				Object:  entity.Object{"id": "5"},
			})
			require.NoError(t, err)

			var msg common.Message
			require.NoError(t, serializer.Deserialize(first, &msg))
			require.NoError(t, serializer.Deserialize(second, &msg))

			assert.Equal(t, common.Message{
				MsgType: common.MsgTPut,
				Object:  entity.Object{"id": "5"},
			}, msg)
		})
	}
}

// TestGOBNestedObjects tests that gob keeps nested objects and integer identities
func TestGOBNestedObjects(t *testing.T) {
	msg := common.Message{
		MsgType: common.MsgTPut,
		Object: entity.Object{
			"id":    4,
			"child": entity.Object{"id": int64(5)},
			"tags":  []any{"a", 1},
		},
	}

	data, err := NewGOBSerializer().Serialize(msg)
	require.NoError(t, err)
	var result common.Message
	require.NoError(t, NewGOBSerializer().Deserialize(data, &result))
	assert.Equal(t, msg, result)

	id, ok := entity.IdentityOf(result.Object, entity.DefaultIDProperty)
	assert.True(t, ok)
	assert.Equal(t, "4", id)
}

// TestJSONNumbers documents that json turns object numbers into float64
func TestJSONNumbers(t *testing.T) {
	msg := common.Message{MsgType: common.MsgTPut, Object: entity.Object{"n": 7}}

	data, err := NewJSONSerializer().Serialize(msg)
	require.NoError(t, err)
	var viaJSON common.Message
	require.NoError(t, NewJSONSerializer().Deserialize(data, &viaJSON))
	assert.Equal(t, float64(7), viaJSON.Object["n"])

	data, err = NewGOBSerializer().Serialize(msg)
	require.NoError(t, err)
	var viaGOB common.Message
	require.NoError(t, NewGOBSerializer().Deserialize(data, &viaGOB))
	assert.Equal(t, 7, viaGOB.Object["n"])
}

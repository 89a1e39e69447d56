package common

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/lib/undo"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	ID     string        `json:"id,omitempty"`     // Used for: Get, Remove (request), Add, Put (explicit identity in request, identity in response)
	Object entity.Object `json:"object,omitempty"` // Used for: Add, Put, Changing (request), Get, Add (response)
	Steps  int           `json:"steps,omitempty"`  // Used for: Undo, Redo (request: requested steps, response: applied steps)

	// Response only fields
	Ok      bool          `json:"ok,omitempty"`      // Used for: Get, Remove responses
	History *undo.History `json:"history,omitempty"` // Used for: History, Undo, Redo responses
	Err     string        `json:"err,omitempty"`     // Empty if no error, otherwise contains the error message
	Code    store.RetCode `json:"code,omitempty"`    // Return code of the error (see store.RetCode)
}

// setErr fills the error fields of a response
func (m *Message) setErr(err error) {
	if err != nil {
		m.Err = err.Error()
		m.Code = store.CodeOf(err)
	}
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewGetRequest creates a new Get request
func NewGetRequest(id string) *Message {
	return &Message{
		MsgType: MsgTGet,
		ID:      id,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(obj entity.Object, ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTGet,
		Object:  obj,
		Ok:      ok,
	}
	msg.setErr(err)
	return msg
}

// NewAddRequest creates a new Add request
func NewAddRequest(obj entity.Object, id string) *Message {
	return &Message{
		MsgType: MsgTAdd,
		Object:  obj,
		ID:      id,
	}
}

// NewAddResponse creates a new Add response
func NewAddResponse(stored entity.Object, err error) *Message {
	msg := &Message{
		MsgType: MsgTAdd,
		Object:  stored,
	}
	msg.setErr(err)
	return msg
}

// NewPutRequest creates a new Put request
func NewPutRequest(obj entity.Object, id string) *Message {
	return &Message{
		MsgType: MsgTPut,
		Object:  obj,
		ID:      id,
	}
}

// NewPutResponse creates a new Put response
func NewPutResponse(id string, err error) *Message {
	msg := &Message{
		MsgType: MsgTPut,
		ID:      id,
	}
	msg.setErr(err)
	return msg
}

// NewRemoveRequest creates a new Remove request
func NewRemoveRequest(id string) *Message {
	return &Message{
		MsgType: MsgTRemove,
		ID:      id,
	}
}

// NewRemoveResponse creates a new Remove response
func NewRemoveResponse(ok bool, err error) *Message {
	msg := &Message{
		MsgType: MsgTRemove,
		Ok:      ok,
	}
	msg.setErr(err)
	return msg
}

// NewChangingRequest creates a new Changing request
func NewChangingRequest(obj entity.Object) *Message {
	return &Message{
		MsgType: MsgTChanging,
		Object:  obj,
	}
}

// NewChangingResponse creates a new Changing response
func NewChangingResponse(err error) *Message {
	msg := &Message{
		MsgType: MsgTChanging,
	}
	msg.setErr(err)
	return msg
}

// NewUndoRequest creates a new Undo request
func NewUndoRequest(steps int) *Message {
	return &Message{
		MsgType: MsgTUndo,
		Steps:   steps,
	}
}

// NewRedoRequest creates a new Redo request
func NewRedoRequest(steps int) *Message {
	return &Message{
		MsgType: MsgTRedo,
		Steps:   steps,
	}
}

// NewReplayResponse creates a new Undo or Redo response
func NewReplayResponse(msgType MessageType, applied int, history undo.History, err error) *Message {
	msg := &Message{
		MsgType: msgType,
		Steps:   applied,
		History: &history,
	}
	msg.setErr(err)
	return msg
}

// NewHistoryRequest creates a new History request
func NewHistoryRequest() *Message {
	return &Message{
		MsgType: MsgTHistory,
	}
}

// NewHistoryResponse creates a new History response
func NewHistoryResponse(history undo.History) *Message {
	return &Message{
		MsgType: MsgTHistory,
		History: &history,
	}
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
		Code:    store.RetCInternalError,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTGet:
		return "get"
	case MsgTAdd:
		return "add"
	case MsgTPut:
		return "put"
	case MsgTRemove:
		return "remove"
	case MsgTChanging:
		return "changing"
	case MsgTUndo:
		return "undo"
	case MsgTRedo:
		return "redo"
	case MsgTHistory:
		return "history"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Convert string back to MessageType
	switch s {
	case "get":
		*t = MsgTGet
	case "add":
		*t = MsgTAdd
	case "put":
		*t = MsgTPut
	case "remove":
		*t = MsgTRemove
	case "changing":
		*t = MsgTChanging
	case "undo":
		*t = MsgTUndo
	case "redo":
		*t = MsgTRedo
	case "history":
		*t = MsgTHistory
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IStore operations

	MsgTGet    // Get an object by identity
	MsgTAdd    // Add a new object
	MsgTPut    // Create or update an object
	MsgTRemove // Remove an object

	// Undo operations

	MsgTChanging // Announce a change of an object
	MsgTUndo     // Undo the last steps
	MsgTRedo     // Redo the last undone steps
	MsgTHistory  // Read the history depths
)

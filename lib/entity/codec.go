package entity

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
)

// Codec converts objects to bytes and back.
type Codec interface {
	// Encode serializes an object into a byte array
	Encode(obj Object) ([]byte, error)
	// Decode deserializes a byte array into a new object
	Decode(b []byte) (Object, error)
	// Name returns the name the codec is selected by (json, gob)
	Name() string
}

func init() {
	// nested values inside an Object travel as interfaces
	gob.Register(Object{})
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// NewCodec returns the codec with the given name.
func NewCodec(name string) (Codec, error) {
	switch name {
	case "json", "":
		return NewJSONCodec(), nil
	case "gob":
		return NewGOBCodec(), nil
	default:
		return nil, fmt.Errorf("invalid codec %s", name)
	}
}

// NewJSONCodec creates a new codec using json encoding
func NewJSONCodec() Codec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the Codec interface using json encoding
type jsonCodecImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see entity.Codec)
// --------------------------------------------------------------------------

func (j jsonCodecImpl) Encode(obj Object) ([]byte, error) {
	return json.Marshal(obj)
}

func (j jsonCodecImpl) Decode(b []byte) (Object, error) {
	var obj Object
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (j jsonCodecImpl) Name() string {
	return "json"
}

// NewGOBCodec creates a new codec using Go's binary gob format
func NewGOBCodec() Codec {
	return &gobCodecImpl{}
}

// gobCodecImpl implements the Codec interface using gob encoding
type gobCodecImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see entity.Codec)
// --------------------------------------------------------------------------

func (g gobCodecImpl) Encode(obj Object) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g gobCodecImpl) Decode(b []byte) (Object, error) {
	var obj Object
	dec := gob.NewDecoder(bytes.NewBuffer(b))
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (g gobCodecImpl) Name() string {
	return "gob"
}

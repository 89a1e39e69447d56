package entity

import (
	"math"
	"strconv"
)

// DefaultIDProperty is the field that holds an object's identity unless a store is
// configured otherwise.
const DefaultIDProperty = "id"

// Object is a single record of a store.
type Object map[string]any

// IdentityOf returns the identity stored under prop.
// Strings are used as is, integral numbers are formatted in base 10.
// The boolean is false if the object carries no usable identity.
func IdentityOf(obj Object, prop string) (string, bool) {
	if obj == nil {
		return "", false
	}
	switch v := obj[prop].(type) {
	case string:
		return v, v != ""
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		// int64(v) is undefined outside [-2^63, 2^63)
		if v != math.Trunc(v) || v < -0x1p63 || v >= 0x1p63 {
			return "", false
		}
		return strconv.FormatInt(int64(v), 10), true
	default:
		return "", false
	}
}

// WithIdentity returns a shallow copy of obj with prop set to id.
func WithIdentity(obj Object, prop, id string) Object {
	out := make(Object, len(obj)+1)
	for k, v := range obj {
		out[k] = v
	}
	out[prop] = id
	return out
}

// Clone returns a snapshot of obj made with the given codec.
func Clone(c Codec, obj Object) (Object, error) {
	if obj == nil {
		return nil, nil
	}
	b, err := c.Encode(obj)
	if err != nil {
		return nil, err
	}
	return c.Decode(b)
}

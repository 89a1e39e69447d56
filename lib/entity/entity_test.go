package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityOf(t *testing.T) {
	cases := []struct {
		name string
		obj  Object
		id   string
		ok   bool
	}{
		{"string", Object{"id": "a"}, "a", true},
		{"empty string", Object{"id": ""}, "", false},
		{"int", Object{"id": 4}, "4", true},
		{"float", Object{"id": float64(4)}, "4", true},
		{"fraction", Object{"id": 4.5}, "", false},
		{"negative float", Object{"id": float64(-12)}, "-12", true},
		{"float too large", Object{"id": 1e20}, "", false},
		{"float too small", Object{"id": -9.3e18}, "", false},
		{"float 2^63", Object{"id": 0x1p63}, "", false},
		{"float -2^63", Object{"id": -0x1p63}, "-9223372036854775808", true},
		{"infinity", Object{"id": math.Inf(1)}, "", false},
		{"nan", Object{"id": math.NaN()}, "", false},
		{"missing", Object{"name": "x"}, "", false},
		{"nil", nil, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			id, ok := IdentityOf(c.obj, DefaultIDProperty)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.id, id)
		})
	}
}

func TestWithIdentity(t *testing.T) {
	obj := Object{"name": "x"}
	out := WithIdentity(obj, "key", "7")
	assert.Equal(t, "7", out["key"])
	_, present := obj["key"]
	assert.False(t, present, "source object must stay untouched")
}

func TestClone(t *testing.T) {
	for _, codec := range []Codec{NewJSONCodec(), NewGOBCodec()} {
		t.Run(codec.Name(), func(t *testing.T) {
			obj := Object{
				"id":   "1",
				"tags": []any{"a", "b"},
				"meta": map[string]any{"owner": "alice"},
			}
			snap, err := Clone(codec, obj)
			require.NoError(t, err)
			assert.Equal(t, "1", snap["id"])

			// mutating the source must not leak into the snapshot
			obj["id"] = "2"
			obj["tags"].([]any)[0] = "z"
			obj["meta"].(map[string]any)["owner"] = "bob"

			assert.Equal(t, "1", snap["id"])
			assert.Equal(t, "a", snap["tags"].([]any)[0])
			assert.Equal(t, "alice", snap["meta"].(map[string]any)["owner"])
		})
	}
}

func TestNewCodec(t *testing.T) {
	c, err := NewCodec("gob")
	require.NoError(t, err)
	assert.Equal(t, "gob", c.Name())

	_, err = NewCodec("xml")
	assert.Error(t, err)
}

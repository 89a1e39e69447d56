package kv

import (
	"testing"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	obj, err := parseFields([]string{"id=4", "name=square", "size=2.5", "filled=true", "tags=[\"a\"]", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, entity.Object{
		"id":     float64(4),
		"name":   "square",
		"size":   2.5,
		"filled": true,
		"tags":   []any{"a"},
		"note":   "a=b",
	}, obj)
}

func TestParseFieldsInvalid(t *testing.T) {
	for _, in := range []string{"name", "=x"} {
		_, err := parseFields([]string{in})
		assert.Error(t, err, in)
	}
}

package common

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]logger.LogLevel{
		"debug": logger.DEBUG,
		"INFO":  logger.INFO,
		"warn":  logger.WARNING,
		"error": logger.ERROR,
	} {
		lvl, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, lvl, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
	assert.Error(t, InitLoggers("verbose"))
}

func TestMessageTypeJSON(t *testing.T) {
	for mt := MsgTSuccess; mt <= MsgTHistory; mt++ {
		b, err := json.Marshal(mt)
		require.NoError(t, err)

		var back MessageType
		require.NoError(t, json.Unmarshal(b, &back))
		assert.Equal(t, mt, back)
	}

	var mt MessageType
	assert.Error(t, json.Unmarshal([]byte(`"frobnicate"`), &mt))
}

func TestResponseErrors(t *testing.T) {
	msg := NewRemoveResponse(false, store.NewError(store.RetCNotFound, "object x not found"))
	assert.Equal(t, store.RetCNotFound, msg.Code)
	assert.Contains(t, msg.Err, "object x not found")

	msg = NewChangingResponse(errors.New("boom"))
	assert.Equal(t, store.RetCInternalError, msg.Code)

	msg = NewPutResponse("a", nil)
	assert.Empty(t, msg.Err)
	assert.Equal(t, store.RetCSuccess, msg.Code)
}

func TestServerConfigString(t *testing.T) {
	c := ServerConfig{
		Shards: []ServerShard{
			{ShardID: 1, Type: ShardTypeLocalStore},
			{ShardID: 2, Type: ShardTypePebbleStore},
		},
		DataDir:  "/var/lib/ukv",
		Endpoint: ":8080",
	}
	assert.True(t, c.HasPebbleShard())

	out := c.String()
	assert.Contains(t, out, "unlimited")
	assert.Contains(t, out, "pebble store")
	assert.Contains(t, out, "/var/lib/ukv")
}

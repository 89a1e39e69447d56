package serve

import (
	"testing"

	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShards(t *testing.T) {
	shards, err := parseShards("100=lstore, 200 = pstore")
	require.NoError(t, err)
	assert.Equal(t, []common.ServerShard{
		{ShardID: 100, Type: common.ShardTypeLocalStore},
		{ShardID: 200, Type: common.ShardTypePebbleStore},
	}, shards)
}

func TestParseShardsInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"100",
		"abc=lstore",
		"100=dstore",
		"100=lstore,100=pstore",
		"1=lstore=x",
	} {
		_, err := parseShards(in)
		assert.Error(t, err, in)
	}
}

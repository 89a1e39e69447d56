package unix

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixRoundTrip(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "ukv.sock")

	// a stale socket file is replaced
	require.NoError(t, os.WriteFile(socketPath, nil, 0o600))

	srv := NewUnixServerTransport(DefaultBufferSize, DefaultMaxWorkersPerConn)
	srv.RegisterHandler(func(ctx context.Context, shardId uint64, req []byte) []byte {
		return append([]byte("ok:"), req...)
	})
	go func() { _ = srv.Listen(common.ServerConfig{Endpoint: socketPath}) }()

	client := NewUnixClientTransport()
	config := common.ClientConfig{
		Endpoints:              []string{socketPath},
		TimeoutSecond:          5,
		ConnectionsPerEndpoint: 2,
		SocketBufferSize:       32 * 1024,
	}
	require.Eventually(t, func() bool { return client.Connect(config) == nil }, 5*time.Second, 50*time.Millisecond)
	defer client.Close()

	for _, req := range []string{"a", "b", "c"} {
		resp, err := client.Send(context.Background(), 1, []byte(req))
		require.NoError(t, err)
		assert.Equal(t, "ok:"+req, string(resp))
	}
}

func TestUnixConnectMissingSocket(t *testing.T) {
	client := NewUnixClientTransport()
	err := client.Connect(common.ClientConfig{Endpoints: []string{filepath.Join(t.TempDir(), "missing.sock")}})
	assert.Error(t, err)
}

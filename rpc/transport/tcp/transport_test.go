package tcp

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freeEndpoint returns a local address nothing listens on
func freeEndpoint(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	endpoint := listener.Addr().String()
	require.NoError(t, listener.Close())
	return endpoint
}

func TestTCPRoundTrip(t *testing.T) {
	endpoint := freeEndpoint(t)

	srv := NewTCPServerTransport(DefaultBufferSize, DefaultMaxWorkersPerConn)
	srv.RegisterHandler(func(ctx context.Context, shardId uint64, req []byte) []byte {
		return []byte(fmt.Sprintf("%d:%s", shardId, req))
	})
	go func() { _ = srv.Listen(common.ServerConfig{Endpoint: endpoint, TimeoutSecond: 5}) }()

	client := NewTCPClientTransport()
	config := common.ClientConfig{
		Endpoints:        []string{endpoint},
		TimeoutSecond:    5,
		RetryCount:       2,
		TCPNoDelay:       true,
		TCPKeepAliveSec:  30,
		SocketBufferSize: 64 * 1024,
	}
	require.Eventually(t, func() bool { return client.Connect(config) == nil }, 5*time.Second, 50*time.Millisecond)
	defer client.Close()

	resp, err := client.Send(context.Background(), 3, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "3:hello", string(resp))

	// empty payloads are valid frames
	resp, err = client.Send(context.Background(), 4, nil)
	require.NoError(t, err)
	assert.Equal(t, "4:", string(resp))
}

func TestTCPConnectRefused(t *testing.T) {
	client := NewTCPClientTransport()
	assert.Error(t, client.Connect(common.ClientConfig{Endpoints: []string{freeEndpoint(t)}}))
}

package base

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConnector serves on a listener created by the test and dials its address
type testConnector struct {
	listener net.Listener
}

func (c *testConnector) GetName() string { return "test" }

func (c *testConnector) Listen(common.ServerConfig) (net.Listener, error) { return c.listener, nil }

func (c *testConnector) Connect(endpoint string) (net.Conn, error) { return net.Dial("tcp", endpoint) }

func (c *testConnector) UpgradeConnection(net.Conn, common.ClientConfig) error { return nil }

// startServer starts a server transport with the given handler on a free local port
// and returns the endpoint to connect to
func startServer(t *testing.T, handler transport.ServerHandleFunc) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewBaseServerTransport(&testConnector{listener: listener}, 1024, 4)
	srv.RegisterHandler(handler)
	go func() { _ = srv.Listen(common.ServerConfig{Endpoint: listener.Addr().String()}) }()
	t.Cleanup(func() { _ = listener.Close() })

	return listener.Addr().String()
}

func echoHandler(_ context.Context, shardId uint64, req []byte) []byte {
	return []byte(fmt.Sprintf("%d:%s", shardId, req))
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeFrame(&buf, 7, 42, []byte("hello")))
	require.NoError(t, writeFrame(&buf, 8, 43, nil))
	require.NoError(t, writeFrame(&buf, 9, 44, bytes.Repeat([]byte("x"), 100)))

	shardID, requestID, data, err := readFrame(&buf, make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), shardID)
	assert.Equal(t, uint64(42), requestID)
	assert.Equal(t, "hello", string(data))

	shardID, requestID, data, err = readFrame(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), shardID)
	assert.Equal(t, uint64(43), requestID)
	assert.Empty(t, data)

	// payload larger than the buffer
	_, requestID, data, err = readFrame(&buf, make([]byte, 32))
	require.NoError(t, err)
	assert.Equal(t, uint64(44), requestID)
	assert.Len(t, data, 100)

	_, _, _, err = readFrame(&buf, nil)
	assert.Error(t, err)
}

func TestSendRoundTrip(t *testing.T) {
	endpoint := startServer(t, echoHandler)

	client := NewBaseClientTransport(&testConnector{})
	require.NoError(t, client.Connect(common.ClientConfig{
		Endpoints:              []string{endpoint},
		TimeoutSecond:          5,
		ConnectionsPerEndpoint: 2,
	}))
	defer client.Close()

	// responses are matched to their requests
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := fmt.Sprintf("req-%d", i)
			resp, err := client.Send(context.Background(), uint64(i), []byte(req))
			if assert.NoError(t, err) {
				assert.Equal(t, fmt.Sprintf("%d:%s", i, req), string(resp))
			}
		}(i)
	}
	wg.Wait()
}

func TestSendTimeoutIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	endpoint := startServer(t, func(ctx context.Context, shardId uint64, req []byte) []byte {
		calls.Add(1)
		time.Sleep(1500 * time.Millisecond)
		return req
	})

	client := NewBaseClientTransport(&testConnector{})
	require.NoError(t, client.Connect(common.ClientConfig{
		Endpoints:     []string{endpoint},
		TimeoutSecond: 1,
		RetryCount:    3,
	}))
	defer client.Close()

	_, err := client.Send(context.Background(), 1, []byte("undo"))
	require.Error(t, err)

	// a retried request would reach the handler while the first one still sleeps
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSendReconnects(t *testing.T) {
	endpoint := startServer(t, echoHandler)

	client := NewBaseClientTransport(&testConnector{})
	require.NoError(t, client.Connect(common.ClientConfig{
		Endpoints:     []string{endpoint},
		TimeoutSecond: 5,
		RetryCount:    3,
	}))
	defer client.Close()

	_, err := client.Send(context.Background(), 1, []byte("a"))
	require.NoError(t, err)

	// break the connection underneath the transport
	ct := client.(*clientTransport)
	require.Len(t, ct.connections, 1)
	require.NoError(t, ct.connections[0].current().Close())

	assert.Eventually(t, func() bool {
		resp, err := client.Send(context.Background(), 2, []byte("b"))
		return err == nil && string(resp) == "2:b"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestSendContextCanceled(t *testing.T) {
	endpoint := startServer(t, func(ctx context.Context, shardId uint64, req []byte) []byte {
		time.Sleep(200 * time.Millisecond)
		return req
	})

	client := NewBaseClientTransport(&testConnector{})
	require.NoError(t, client.Connect(common.ClientConfig{Endpoints: []string{endpoint}}))
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Send(ctx, 1, []byte("x"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConnectErrors(t *testing.T) {
	client := NewBaseClientTransport(&testConnector{})
	assert.Error(t, client.Connect(common.ClientConfig{}))

	// nothing listens on a closed listener's address
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	endpoint := listener.Addr().String()
	require.NoError(t, listener.Close())
	assert.Error(t, client.Connect(common.ClientConfig{Endpoints: []string{endpoint}}))
}

func TestSendAfterClose(t *testing.T) {
	endpoint := startServer(t, echoHandler)

	client := NewBaseClientTransport(&testConnector{})
	require.NoError(t, client.Connect(common.ClientConfig{Endpoints: []string{endpoint}}))
	require.NoError(t, client.Close())

	_, err := client.Send(context.Background(), 1, []byte("x"))
	assert.Error(t, err)
}

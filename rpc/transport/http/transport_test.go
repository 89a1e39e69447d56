package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer starts a server transport that echoes the shard id and the request body
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := &httpServerTransport{}
	srv.RegisterHandler(func(ctx context.Context, shardId uint64, req []byte) []byte {
		return []byte(fmt.Sprintf("%d:%s", shardId, req))
	})
	srv.RegisterMetrics(
		func(w io.Writer) { _, _ = io.WriteString(w, "ukv_test_metric 1\n") },
		func(w io.Writer) { _, _ = io.WriteString(w, `{"test":1}`) },
	)
	ts := httptest.NewServer(srv.newMux())
	t.Cleanup(ts.Close)
	return ts
}

func TestSendRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	client := NewHttpClientTransport()
	require.NoError(t, client.Connect(common.ClientConfig{Endpoints: []string{ts.URL}, TimeoutSecond: 5}))
	defer client.Close()

	resp, err := client.Send(context.Background(), 7, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "7:hello", string(resp))
}

func TestSendRetriesNextEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// the first endpoint refuses connections
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	client := NewHttpClientTransport()
	require.NoError(t, client.Connect(common.ClientConfig{
		Endpoints:     []string{deadURL, ts.URL},
		TimeoutSecond: 5,
		RetryCount:    2,
	}))
	defer client.Close()

	for i := 0; i < 4; i++ {
		resp, err := client.Send(context.Background(), 1, []byte("x"))
		require.NoError(t, err)
		assert.Equal(t, "1:x", string(resp))
	}
}

func TestSendTimeoutIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := &httpServerTransport{}
	srv.RegisterHandler(func(ctx context.Context, shardId uint64, req []byte) []byte {
		calls.Add(1)
		time.Sleep(1500 * time.Millisecond)
		return req
	})
	ts := httptest.NewServer(srv.newMux())
	defer ts.Close()

	client := NewHttpClientTransport()
	require.NoError(t, client.Connect(common.ClientConfig{
		Endpoints:     []string{ts.URL},
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

func TestSendInvalidShard(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/not-a-number", "application/octet-stream", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSendNotConnected(t *testing.T) {
	_, err := NewHttpClientTransport().Send(context.Background(), 1, nil)
	assert.Error(t, err)
}

func TestConnectWithoutEndpoints(t *testing.T) {
	assert.Error(t, NewHttpClientTransport().Connect(common.ClientConfig{}))
}

func TestMetricsEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for path, want := range map[string]string{
		"/metrics":       "ukv_test_metric 1\n",
		"/debug/metrics": `{"test":1}`,
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, want, string(body), path)
	}
}

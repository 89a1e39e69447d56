package util

import (
	"testing"

	"github.com/ValentinKolb/uKV/rpc/transport/http"
	"github.com/ValentinKolb/uKV/rpc/transport/tcp"
	"github.com/ValentinKolb/uKV/rpc/transport/unix"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTransports(t *testing.T) {
	defer viper.Reset()

	for name, want := range map[string]struct{ client, server any }{
		"http": {http.NewHttpClientTransport(), http.NewHttpServerTransport()},
		"tcp":  {tcp.NewTCPClientTransport(), tcp.NewTCPServerTransport(tcp.DefaultBufferSize, tcp.DefaultMaxWorkersPerConn)},
		"unix": {unix.NewUnixClientTransport(), unix.NewUnixServerTransport(unix.DefaultBufferSize, unix.DefaultMaxWorkersPerConn)},
	} {
		viper.Set("transport", name)

		client, err := GetClientTransport()
		require.NoError(t, err, name)
		assert.IsType(t, want.client, client, name)

		server, err := GetServerTransport()
		require.NoError(t, err, name)
		assert.IsType(t, want.server, server, name)
	}

	viper.Set("transport", "quic")
	_, err := GetClientTransport()
	assert.Error(t, err)
	_, err = GetServerTransport()
	assert.Error(t, err)
}

func TestGetClientConfig(t *testing.T) {
	defer viper.Reset()

	viper.Set("transport-endpoints", "localhost:8080, ,localhost:8081")
	viper.Set("timeout", 3)
	viper.Set("transport-retries", 2)
	viper.Set("transport-tcp-nodelay", true)
	viper.Set("transport-socket-buf", 4096)

	config := GetClientConfig()
	assert.Equal(t, []string{"localhost:8080", "localhost:8081"}, config.Endpoints)
	assert.Equal(t, 3, config.TimeoutSecond)
	assert.Equal(t, 2, config.RetryCount)
	assert.True(t, config.TCPNoDelay)
	assert.Equal(t, 4096, config.SocketBufferSize)
}

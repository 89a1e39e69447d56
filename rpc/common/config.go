package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

type ServerShardType string

const (
	ShardTypeLocalStore  ServerShardType = "local store"
	ShardTypePebbleStore ServerShardType = "pebble store"
)

type ServerShard struct {
	// ShardID is the ID of the shard
	ShardID uint64
	// Type is the backend of the shard's store
	Type ServerShardType
}

// ServerConfig holds all configuration parameters of the uKV server.
type ServerConfig struct {
	// the undo stores served by this server
	Shards []ServerShard

	// Storage parameters
	DataDir string // Directory of the pebble stores (one sub directory per shard)
	Codec   string // Codec used to keep objects and take snapshots (json, gob)

	// Undo parameters
	MaxHistory int // Maximum undo depth per shard (0 = unlimited)

	// Per request timeout
	TimeoutSecond int64

	// HTTP api settings
	Endpoint string

	// Logging configuration
	LogLevel string
}

// HasPebbleShard checks if the configuration contains any pebble shards
func (c *ServerConfig) HasPebbleShard() bool {
	for _, shard := range c.Shards {
		if shard.Type == ShardTypePebbleStore {
			return true
		}
	}
	return false
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Undo settings
	addSection("Undo")
	if c.MaxHistory > 0 {
		addField("Max History", strconv.Itoa(c.MaxHistory))
	} else {
		addField("Max History", "unlimited")
	}
	addField("Codec", c.Codec)

	// Shards
	addSection("Shards")
	for _, shard := range c.Shards {
		addField(strconv.FormatUint(shard.ShardID, 10), string(shard.Type))
	}

	if c.HasPebbleShard() {
		addSection("Storage")
		addField("Data Directory", c.DataDir)
	}
	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	Endpoints              []string
	TimeoutSecond          int
	RetryCount             int
	ConnectionsPerEndpoint int

	// Socket settings (tcp and unix transport only)
	TCPNoDelay       bool
	TCPKeepAliveSec  int
	SocketBufferSize int // 0 = os default
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.ConnectionsPerEndpoint)))))
	addField("TCP No Delay", strconv.FormatBool(c.TCPNoDelay))
	addField("TCP Keep Alive", fmt.Sprintf("%d sec", c.TCPKeepAliveSec))
	if c.SocketBufferSize > 0 {
		addField("Socket Buffer Size", strconv.Itoa(c.SocketBufferSize))
	}

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}

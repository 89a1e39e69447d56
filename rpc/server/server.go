package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/ValentinKolb/uKV/lib/store/lstore"
	"github.com/ValentinKolb/uKV/lib/store/pstore"
	"github.com/ValentinKolb/uKV/lib/undo"
	"github.com/ValentinKolb/uKV/rpc/common"
	"github.com/ValentinKolb/uKV/rpc/serializer"
	"github.com/ValentinKolb/uKV/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	gometrics "github.com/rcrowley/go-metrics"
)

var Logger = logger.GetLogger("rpc")

// serverShard is a struct that represents a shard in the RPC server
// It contains the undo store it encapsulates, the adapter that handles
// requests for the store and the closer of the backing store (if any)
type serverShard struct {
	Store   *undo.Store
	Adapter IRPCServerAdapter
	closer  io.Closer

	// the undo store is not thread-safe, all requests of a shard are serialized
	mu sync.Mutex
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Create the RPC server
	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		shards:     xsync.NewMapOf[uint64, *serverShard](),
		registry:   gometrics.NewRegistry(),
	}
}

type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	shards     *xsync.MapOf[uint64, *serverShard]
	registry   gometrics.Registry // request timers per message type
}

// handle decodes a request, lets the adapter of the shard handle it and encodes the response
func (s *RPCServer) handle(ctx context.Context, shardId uint64, req []byte) []byte {
	var msg common.Message
	var respMsg *common.Message

	// Get appropriate shard
	shard, ok := s.shards.Load(shardId)

	// Case shard does not exist -> error
	if !ok {
		respMsg = common.NewErrorResponse(fmt.Sprintf("shard %d not found", shardId))
	} else if err := s.serializer.Deserialize(req, &msg); err != nil {
		respMsg = common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
	} else {
		start := time.Now()

		// Let the adapter handle the request
		shard.mu.Lock()
		respMsg = shard.Adapter.Handle(ctx, &msg, shard.Store)
		shard.mu.Unlock()

		gometrics.GetOrRegisterTimer(fmt.Sprintf("rpc.%d.%s", shardId, msg.MsgType), s.registry).UpdateSince(start)
		if respMsg.Err != "" {
			gometrics.GetOrRegisterCounter(fmt.Sprintf("rpc.%d.errors", shardId), s.registry).Inc(1)
			Logger.Debugf("shard %d: %s failed: %s", shardId, msg.MsgType, respMsg.Err)
		}
	}

	// Return result
	val, err := s.serializer.Serialize(*respMsg)
	if err != nil {
		Logger.Errorf("failed to serialize response: %v", err)
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
	}
	return val
}

// writePrometheus writes the process metrics and the metrics of all undo stores
func (s *RPCServer) writePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, true)
	for _, id := range s.shardIDs() {
		if shard, ok := s.shards.Load(id); ok {
			shard.Store.Metrics().WritePrometheus(w)
		}
	}
}

// writeJSON writes the request timers of the server
func (s *RPCServer) writeJSON(w io.Writer) {
	gometrics.WriteJSONOnce(s.registry, w)
}

// shardIDs returns the sorted ids of all shards
func (s *RPCServer) shardIDs() []uint64 {
	ids := make([]uint64, 0, s.shards.Size())
	s.shards.Range(func(id uint64, _ *serverShard) bool {
		ids = append(ids, id)
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// newShard creates the backing store of a shard and wraps it in an undo store
func (s *RPCServer) newShard(shardConfig common.ServerShard, codec entity.Codec) (*serverShard, error) {
	var backend store.IStore
	var closer io.Closer

	switch shardConfig.Type {
	case common.ShardTypeLocalStore:
		backend = lstore.NewLocalStore(&lstore.Options{
			IDProperty: entity.DefaultIDProperty,
			Codec:      codec,
		})
	case common.ShardTypePebbleStore:
		pebbleStore, err := pstore.Open(pstore.Options{
			Dir:        filepath.Join(s.config.DataDir, strconv.FormatUint(shardConfig.ShardID, 10)),
			IDProperty: entity.DefaultIDProperty,
			Codec:      codec,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open pebble store: %w", err)
		}
		backend, closer = pebbleStore, pebbleStore
	default:
		return nil, fmt.Errorf("invalid shard type: %s", shardConfig.Type)
	}

	return &serverShard{
		Store: undo.New(backend, &undo.Options{
			MaxDepth:     s.config.MaxHistory,
			Codec:        codec,
			MetricsLabel: strconv.FormatUint(shardConfig.ShardID, 10),
		}),
		Adapter: NewUndoServerAdapter(),
		closer:  closer,
	}, nil
}

func (s *RPCServer) init() error {

	// Init logger
	if err := common.InitLoggers(s.config.LogLevel); err != nil {
		return err
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof(s.config.String())

	codec, err := entity.NewCodec(s.config.Codec)
	if err != nil {
		return err
	}

	// CREATE SHARDS
	for _, shardConfig := range s.config.Shards {
		if _, exists := s.shards.Load(shardConfig.ShardID); exists {
			return fmt.Errorf("duplicate shard id: %d", shardConfig.ShardID)
		}

		shard, err := s.newShard(shardConfig, codec)
		if err != nil {
			return fmt.Errorf("shard %d: %w", shardConfig.ShardID, err)
		}
		s.shards.Store(shardConfig.ShardID, shard)
		Logger.Infof("created %s for shard %d", shardConfig.Type, shardConfig.ShardID)
	}

	Logger.Infof("uKV setup completed successfully")

	// Configure the transport layer
	s.transport.RegisterHandler(s.handle)
	s.transport.RegisterMetrics(s.writePrometheus, s.writeJSON)

	return nil
}

// Close closes the backing stores of all shards
func (s *RPCServer) Close() error {
	var firstErr error
	s.shards.Range(func(id uint64, shard *serverShard) bool {
		if shard.closer == nil {
			return true
		}
		shard.mu.Lock()
		defer shard.mu.Unlock()
		if err := shard.closer.Close(); err != nil {
			Logger.Errorf("failed to close shard %d: %v", id, err)
			if firstErr == nil {
				firstErr = err
			}
		}
		return true
	})
	return firstErr
}

// Serve starts the RPC server
// This function will also initialize the server plus the shards and start the transport layer.
// On SIGINT or SIGTERM the backing stores are closed before the process exits.
func (s *RPCServer) Serve() error {
	if err := s.init(); err != nil {
		_ = s.Close()
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		Logger.Infof("shutting down")
		if err := s.Close(); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}()

	return s.transport.Listen(s.config)
}

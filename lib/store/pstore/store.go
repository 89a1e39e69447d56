package pstore

import (
	"context"
	"errors"
	"sync"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("store")

// keyPrefix separates objects from anything else kept in the same database
const keyPrefix = "o/"

// Options configures the pebble store
type Options struct {
	Dir        string       // Directory of the pebble database
	InMemory   bool         // Keep the database in memory (Dir is ignored)
	Sync       bool         // Sync every write to disk
	IDProperty string       // Field holding the identity (default: entity.DefaultIDProperty)
	Codec      entity.Codec // Codec used to persist objects (default: json)
}

// Store is a store.IStore persisted in a pebble database.
// Writes are serialized so that Add and Remove can check existence atomically.
type Store struct {
	db     *pebble.DB
	mu     sync.Mutex
	wo     *pebble.WriteOptions
	idProp string
	codec  entity.Codec
}

// Open opens (or creates) the pebble database described by opts.
func Open(opts Options) (*Store, error) {
	if opts.IDProperty == "" {
		opts.IDProperty = entity.DefaultIDProperty
	}
	if opts.Codec == nil {
		opts.Codec = entity.NewJSONCodec()
	}

	pebbleOpts := &pebble.Options{}
	dir := opts.Dir
	if opts.InMemory {
		pebbleOpts.FS = vfs.NewMem()
		dir = ""
	} else if dir == "" {
		return nil, store.NewError(store.RetCInvalidOperation, "pebble store needs a directory")
	}

	db, err := pebble.Open(dir, pebbleOpts)
	if err != nil {
		return nil, store.Errorf(store.RetCInternalError, "open pebble database %q: %v", dir, err)
	}

	wo := pebble.NoSync
	if opts.Sync {
		wo = pebble.Sync
	}

	Logger.Infof("opened pebble store (dir=%q, memory=%t, codec=%s)", dir, opts.InMemory, opts.Codec.Name())

	return &Store{
		db:     db,
		wo:     wo,
		idProp: opts.IDProperty,
		codec:  opts.Codec,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func objectKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// load reads and decodes the object stored under id.
func (s *Store) load(id string) (entity.Object, bool, error) {
	value, closer, err := s.db.Get(objectKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, store.Errorf(store.RetCInternalError, "read object %s: %v", id, err)
	}
	defer closer.Close()

	// value is only valid until closer is closed, Decode copies it
	obj, err := s.codec.Decode(value)
	if err != nil {
		return nil, false, store.Errorf(store.RetCInternalError, "decode object %s: %v", id, err)
	}
	return obj, true, nil
}

// write resolves the identity of obj and writes it. Callers must hold s.mu.
func (s *Store) write(obj entity.Object, dirs *store.PutDirectives, mustNotExist bool) (string, []byte, error) {
	if obj == nil {
		return "", nil, store.NewError(store.RetCInvalidOperation, "object is nil")
	}
	id := dirs.IDOf()
	if id == "" {
		id, _ = s.GetIdentity(obj)
	}
	if id == "" {
		id = uuid.NewString()
	}

	if mustNotExist {
		if _, found, err := s.load(id); err != nil {
			return "", nil, err
		} else if found {
			return "", nil, store.Errorf(store.RetCAlreadyExists, "object %s already exists", id)
		}
	}

	b, err := s.codec.Encode(entity.WithIdentity(obj, s.idProp, id))
	if err != nil {
		return "", nil, store.Errorf(store.RetCInternalError, "encode object %s: %v", id, err)
	}
	if err := s.db.Set(objectKey(id), b, s.wo); err != nil {
		return "", nil, store.Errorf(store.RetCInternalError, "write object %s: %v", id, err)
	}
	return id, b, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *Store) Get(ctx context.Context, id string) (entity.Object, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return s.load(id)
}

func (s *Store) Add(ctx context.Context, obj entity.Object, dirs *store.PutDirectives) (entity.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, b, err := s.write(obj, dirs, true)
	if err != nil {
		return nil, err
	}
	stored, err := s.codec.Decode(b)
	if err != nil {
		return nil, store.Errorf(store.RetCInternalError, "decode object %s: %v", id, err)
	}
	return stored, nil
}

func (s *Store) Put(ctx context.Context, obj entity.Object, dirs *store.PutDirectives) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, _, err := s.write(obj, dirs, false)
	return id, err
}

func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, found, err := s.load(id)
	if err != nil || !found {
		return false, err
	}
	if err := s.db.Delete(objectKey(id), s.wo); err != nil {
		return false, store.Errorf(store.RetCInternalError, "delete object %s: %v", id, err)
	}
	return true, nil
}

func (s *Store) GetIdentity(obj entity.Object) (string, bool) {
	return entity.IdentityOf(obj, s.idProp)
}

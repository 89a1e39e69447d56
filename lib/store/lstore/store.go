package lstore

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

// Options configures the local store
type Options struct {
	IDProperty string       // Field holding the identity (default: entity.DefaultIDProperty)
	Codec      entity.Codec // Codec used to keep objects (default: json)
}

// DefaultOptions returns the default local store options
func DefaultOptions() *Options {
	return &Options{
		IDProperty: entity.DefaultIDProperty,
		Codec:      entity.NewJSONCodec(),
	}
}

type storeImpl struct {
	data   *xsync.MapOf[string, []byte]
	index  atomic.Uint64
	idProp string
	codec  entity.Codec
}

// NewLocalStore creates a new local store instance with the specified options (optional).
// This store implementation is not persistent and only lives as long as the process.
func NewLocalStore(opts *Options) store.IStore {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.IDProperty == "" {
		opts.IDProperty = entity.DefaultIDProperty
	}
	if opts.Codec == nil {
		opts.Codec = entity.NewJSONCodec()
	}
	return &storeImpl{
		data:   xsync.NewMapOf[string, []byte](),
		idProp: opts.IDProperty,
		codec:  opts.Codec,
	}
}

// incAndGetIndex increments the index and returns the new value.
// It is used to assign identities to objects stored without one.
//
// Thread-safety: This method is thread-safe since it uses atomic operations.
func (s *storeImpl) incAndGetIndex() uint64 {
	return s.index.Add(1)
}

// nextID returns an identity that is not taken yet.
func (s *storeImpl) nextID() string {
	for {
		id := strconv.FormatUint(s.incAndGetIndex(), 10)
		if _, taken := s.data.Load(id); !taken {
			return id
		}
	}
}

// prepare resolves the identity of obj and encodes it with that identity set.
func (s *storeImpl) prepare(obj entity.Object, dirs *store.PutDirectives) (string, []byte, error) {
	if obj == nil {
		return "", nil, store.NewError(store.RetCInvalidOperation, "object is nil")
	}
	id := dirs.IDOf()
	if id == "" {
		id, _ = s.GetIdentity(obj)
	}
	if id == "" {
		id = s.nextID()
	}
	b, err := s.codec.Encode(entity.WithIdentity(obj, s.idProp, id))
	if err != nil {
		return "", nil, store.Errorf(store.RetCInternalError, "encode object %s: %v", id, err)
	}
	return id, b, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(ctx context.Context, id string) (entity.Object, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	b, ok := s.data.Load(id)
	if !ok {
		return nil, false, nil
	}
	obj, err := s.codec.Decode(b)
	if err != nil {
		return nil, false, store.Errorf(store.RetCInternalError, "decode object %s: %v", id, err)
	}
	return obj, true, nil
}

func (s *storeImpl) Add(ctx context.Context, obj entity.Object, dirs *store.PutDirectives) (entity.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, b, err := s.prepare(obj, dirs)
	if err != nil {
		return nil, err
	}
	if _, loaded := s.data.LoadOrStore(id, b); loaded {
		return nil, store.Errorf(store.RetCAlreadyExists, "object %s already exists", id)
	}
	// hand out a copy, the caller may keep mutating obj
	stored, err := s.codec.Decode(b)
	if err != nil {
		return nil, store.Errorf(store.RetCInternalError, "decode object %s: %v", id, err)
	}
	return stored, nil
}

func (s *storeImpl) Put(ctx context.Context, obj entity.Object, dirs *store.PutDirectives) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, b, err := s.prepare(obj, dirs)
	if err != nil {
		return "", err
	}
	s.data.Store(id, b)
	return id, nil
}

func (s *storeImpl) Remove(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, removed := s.data.LoadAndDelete(id)
	return removed, nil
}

func (s *storeImpl) GetIdentity(obj entity.Object) (string, bool) {
	return entity.IdentityOf(obj, s.idProp)
}

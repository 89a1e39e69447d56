package undo

import (
	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/puzpuzpuz/xsync/v3"
)

// changeCache remembers the state of objects right before the caller announced a change.
// Entries are snapshots, later mutations of the announced object do not reach them.
type changeCache struct {
	codec   entity.Codec
	entries *xsync.MapOf[string, entity.Object]
}

func newChangeCache(codec entity.Codec) *changeCache {
	return &changeCache{
		codec:   codec,
		entries: xsync.NewMapOf[string, entity.Object](),
	}
}

// capture stores a snapshot of obj under id, replacing an older snapshot.
func (c *changeCache) capture(id string, obj entity.Object) error {
	snap, err := entity.Clone(c.codec, obj)
	if err != nil {
		return err
	}
	c.entries.Store(id, snap)
	return nil
}

// lookup returns the snapshot for id.
func (c *changeCache) lookup(id string) (entity.Object, bool) {
	return c.entries.Load(id)
}

// release drops the snapshot for id.
func (c *changeCache) release(id string) {
	c.entries.Delete(id)
}

func (c *changeCache) clear() {
	c.entries.Clear()
}

func (c *changeCache) size() int {
	return c.entries.Size()
}

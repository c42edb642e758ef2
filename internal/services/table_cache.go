package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"

	"csvplot/internal/tabular"
)

// FileData is one uploaded file held in memory
type FileData struct {
	Name string
	Data []byte
}

// Digest returns the blake2b-256 hex digest of the files, in order. Names
// and contents are length-prefixed so no two distinct inputs collide by
// concatenation.
func Digest(files []FileData) string {
	h, _ := blake2b.New256(nil)
	var n [8]byte
	for _, f := range files {
		binary.BigEndian.PutUint64(n[:], uint64(len(f.Name)))
		h.Write(n[:])
		h.Write([]byte(f.Name))
		binary.BigEndian.PutUint64(n[:], uint64(len(f.Data)))
		h.Write(n[:])
		h.Write(f.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// TableCache memoizes merged tables by the digest of their input files.
// Concurrent loads of the same input share one parse. At most capacity
// tables are kept; the least recently used is evicted first. Cached
// tables are shared
// and must be treated as read-only.
type TableCache struct {
	mu       sync.Mutex
	entries  map[string]*tabular.Table
	order    []string
	capacity int
	group    singleflight.Group
}

// NewTableCache creates a cache holding up to capacity tables. A capacity
// of zero disables storage but still collapses concurrent loads.
func NewTableCache(capacity int) *TableCache {
	if capacity < 0 {
		capacity = 0
	}
	return &TableCache{
		entries:  make(map[string]*tabular.Table),
		capacity: capacity,
	}
}

// Load returns the merged table for files, parsing them on a miss. The
// boolean reports whether the table came from the cache.
func (c *TableCache) Load(ctx context.Context, files []FileData) (*tabular.Table, bool, error) {
	if len(files) == 0 {
		return nil, false, tabular.ErrNoSources
	}

	key := Digest(files)
	if t, ok := c.get(key); ok {
		return t, true, nil
	}

	// The shared parse outlives any single caller's cancellation
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		t, err := tabular.Load(loadCtx, sources(files))
		if err != nil {
			return nil, err
		}
		c.put(key, t)
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*tabular.Table), false, nil
	}
}

// Len returns the number of cached tables
func (c *TableCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the maximum number of cached tables
func (c *TableCache) Capacity() int {
	return c.capacity
}

func (c *TableCache) get(key string) (*tabular.Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.entries[key]
	if ok {
		c.touch(key)
	}
	return t, ok
}

// touch moves key to the most recently used end of order. Callers hold mu.
func (c *TableCache) touch(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(append(c.order[:i:i], c.order[i+1:]...), key)
			return
		}
	}
}

func (c *TableCache) put(key string, t *tabular.Table) {
	if c.capacity == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		return
	}
	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = t
	c.order = append(c.order, key)
}

func sources(files []FileData) []tabular.Source {
	srcs := make([]tabular.Source, len(files))
	for i, f := range files {
		srcs[i] = tabular.Source{Name: f.Name, Reader: bytes.NewReader(f.Data)}
	}
	return srcs
}

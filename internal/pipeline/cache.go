package pipeline

import (
	"container/list"
	"crypto/sha256"
	"sync"

	"github.com/klinikbm/review-pasien/internal/extract"
)

// parseCache memoizes extraction results keyed by the content hash of
// the uploaded bytes. Identical uploads yield identical parse results,
// so caching is idempotent. Bounded with LRU eviction.
type parseCache struct {
	mu         sync.Mutex
	entries    map[[sha256.Size]byte]*list.Element
	lru        *list.List
	maxEntries int
}

type cacheEntry struct {
	key    [sha256.Size]byte
	result *extract.Result
}

func newParseCache(maxEntries int) *parseCache {
	if maxEntries <= 0 {
		maxEntries = 16
	}
	return &parseCache{
		entries:    make(map[[sha256.Size]byte]*list.Element),
		lru:        list.New(),
		maxEntries: maxEntries,
	}
}

func (c *parseCache) get(data []byte) (*extract.Result, bool) {
	key := sha256.Sum256(data)

	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(el)
	return el.Value.(*cacheEntry).result, true
}

func (c *parseCache) put(data []byte, result *extract.Result) {
	key := sha256.Sum256(data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).result = result
		c.lru.MoveToFront(el)
		return
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, result: result})

	for c.lru.Len() > c.maxEntries {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

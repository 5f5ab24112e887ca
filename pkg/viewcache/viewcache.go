// Package viewcache keeps rendered dashboard views keyed by request path so
// writes can invalidate them by path.
package viewcache

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	body    []byte
	expires time.Time
}

// Cache is safe for concurrent use. The zero value is not usable; call New.
//
// Keys are a request path, optionally followed by "?" and a query. Every
// Revalidate of a path bumps that path's generation; a Put carrying an older
// generation is dropped, so a body rendered before a write never lands after
// the write's invalidation.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]uint64
	ttl     time.Duration
	now     func() time.Time
}

// New returns a cache whose entries live for ttl. A ttl <= 0 keeps entries
// until they are revalidated.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached body for key.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.expired(e) {
		c.evictExpired(key)
		return nil, false
	}
	return e.body, true
}

// evictExpired deletes key if it is still expired. A Put may have replaced
// the entry since Get released its read lock.
func (c *Cache) evictExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && c.expired(e) {
		delete(c.entries, key)
	}
}

func (c *Cache) expired(e entry) bool {
	return c.ttl > 0 && c.now().After(e.expires)
}

// Generation returns the current generation of key's path. Capture it before
// rendering and hand it to Put.
func (c *Cache) Generation(key string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[pathOf(key)]
}

// Put stores body under key unless key's path was revalidated after gen was
// taken. It reports whether the body was stored.
func (c *Cache) Put(key string, gen uint64, body []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[pathOf(key)] != gen {
		return false
	}
	c.entries[key] = entry{body: body, expires: c.now().Add(c.ttl)}
	return true
}

// Revalidate drops path and every query variant of it.
func (c *Cache) Revalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[path]++
	for key := range c.entries {
		if key == path || strings.HasPrefix(key, path+"?") {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func pathOf(key string) string {
	if i := strings.IndexByte(key, '?'); i >= 0 {
		return key[:i]
	}
	return key
}

package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is an in-memory TTL cache with LRU eviction, safe for concurrent use.
type Cache[V any] struct {
	mu       sync.Mutex
	items    map[string]*entry[V]
	order    *list.List // MRU at front, LRU at back
	maxItems int        // 0 = unlimited
	stop     chan struct{}
	stopOnce sync.Once
}

type entry[V any] struct {
	key  string
	val  V
	exp  time.Time // zero = no expiry
	elem *list.Element
}

// New creates a cache holding at most maxItems entries. A positive janitorInterval
// starts a goroutine sweeping expired entries until Stop is called.
func New[V any](maxItems int, janitorInterval time.Duration) *Cache[V] {
	if maxItems < 0 {
		maxItems = 0
	}
	c := &Cache[V]{
		items:    make(map[string]*entry[V]),
		order:    list.New(),
		maxItems: maxItems,
		stop:     make(chan struct{}),
	}
	if janitorInterval > 0 {
		go c.janitor(janitorInterval)
	}
	return c
}

// Get returns the value if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if e.expired(time.Now()) {
		// lazy delete
		c.removeNoLock(key)
		return zero, false
	}
	c.order.MoveToFront(e.elem)
	return e.val, true
}

// Set stores v. ttl<=0 means no expiry.
func (c *Cache[V]) Set(key string, v V, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		e.val, e.exp = v, exp
		c.order.MoveToFront(e.elem)
		return
	}
	e := &entry[V]{key: key, val: v, exp: exp}
	e.elem = c.order.PushFront(e)
	c.items[key] = e
	if c.maxItems > 0 && c.order.Len() > c.maxItems {
		c.evictLRUNoLock()
	}
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	c.removeNoLock(key)
	c.mu.Unlock()
}

// Len counts stored entries, including expired ones not yet swept.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stop ends the janitor goroutine. The cache stays usable.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) janitor(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-t.C:
			c.sweep()
		}
	}
}

func (c *Cache[V]) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.items {
		if e.expired(now) {
			c.removeNoLock(k)
		}
	}
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.exp.IsZero() && now.After(e.exp)
}

// removeNoLock removes key from map/list; caller must hold c.mu.
func (c *Cache[V]) removeNoLock(key string) {
	if e, ok := c.items[key]; ok {
		c.order.Remove(e.elem)
		delete(c.items, key)
	}
}

// evictLRUNoLock removes one LRU entry; caller must hold c.mu.
func (c *Cache[V]) evictLRUNoLock() {
	back := c.order.Back()
	if back == nil {
		return
	}
	e := back.Value.(*entry[V])
	c.order.Remove(back)
	delete(c.items, e.key)
}

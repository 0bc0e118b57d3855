// Package memcache is the default response-cache backend: a bounded
// in-process LRU guarded by a single mutex. Reads refresh recency, so
// Get mutates the shared order state too.
package memcache

import (
	"container/list"
	"context"
	"sync"

	"bistro_finder/internal/adapters/observability"
	"bistro_finder/internal/domain"
)

type entry struct {
	key string
	val domain.Recommendation
}

type Cache struct {
	mu    sync.Mutex
	cap   int
	order *list.List // front = most recently used
	index map[string]*list.Element
}

func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		cap:   capacity,
		order: list.New(),
		index: make(map[string]*list.Element, capacity),
	}
}

func (c *Cache) Get(_ context.Context, key string) (domain.Recommendation, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		observability.ObserveCache("memory", "miss")
		return domain.Recommendation{}, false, nil
	}
	c.order.MoveToFront(el)
	observability.ObserveCache("memory", "hit")
	return el.Value.(*entry).val, true, nil
}

func (c *Cache) Set(_ context.Context, key string, v domain.Recommendation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		el.Value.(*entry).val = v
		c.order.MoveToFront(el)
		observability.ObserveCache("memory", "set")
		return nil
	}
	if c.order.Len() >= c.cap {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.index, oldest.Value.(*entry).key)
			observability.ObserveCache("memory", "evict")
		}
	}
	c.index[key] = c.order.PushFront(&entry{key: key, val: v})
	observability.ObserveCache("memory", "set")
	return nil
}

func (c *Cache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.index = make(map[string]*list.Element, c.cap)
	return nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

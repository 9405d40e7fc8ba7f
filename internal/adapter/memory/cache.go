// Package memory provides an in-process, size-bounded coordinate cache.
package memory

import (
	"container/list"
	"context"
	"sync"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
)

// Cache is a thread-safe LRU cache of resolved coordinates keyed by address.
// It satisfies domain.CoordinateCache and never returns an error.
type Cache struct {
	maxEntries int

	mu      sync.Mutex
	order   *list.List // front is most recently used
	entries map[domain.Address]*list.Element
}

type entry struct {
	addr  domain.Address
	coord domain.Coordinate
}

var _ domain.CoordinateCache = (*Cache)(nil)

// NewCache creates a cache holding at most maxEntries coordinates.
// A non-positive size is treated as 1.
func NewCache(maxEntries int) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[domain.Address]*list.Element),
	}
}

func (c *Cache) Get(_ context.Context, addr domain.Address) (domain.Coordinate, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[addr]
	if !ok {
		return domain.Coordinate{}, false, nil
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).coord, true, nil
}

func (c *Cache) Put(_ context.Context, addr domain.Address, coord domain.Coordinate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Entries are write-once; a repeat put only refreshes recency.
	if el, ok := c.entries[addr]; ok {
		c.order.MoveToFront(el)
		return nil
	}

	c.entries[addr] = c.order.PushFront(&entry{addr: addr, coord: coord})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).addr)
	}
	return nil
}

// Len reports the number of cached coordinates.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

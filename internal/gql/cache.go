package gql

import (
	"encoding/json"
	"sync"
)

// cache holds the last raw result per read key. There is no eviction and no
// TTL; a slot lives until it is replaced or invalidated.
//
// Slots hold encoded JSON so callers never share memory with the cache.
type cache struct {
	mu    sync.RWMutex
	slots map[string]json.RawMessage
}

func newCache() *cache {
	return &cache{slots: make(map[string]json.RawMessage)}
}

func (c *cache) get(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	raw, ok := c.slots[key]
	return raw, ok
}

func (c *cache) set(key string, raw json.RawMessage) {
	c.mu.Lock()
	c.slots[key] = raw
	c.mu.Unlock()
}

// update rewrites an existing slot under the write lock. It reports false
// when there is nothing cached for key.
func (c *cache) update(key string, fn func(json.RawMessage) (json.RawMessage, error)) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.slots[key]
	if !ok {
		return false, nil
	}
	next, err := fn(raw)
	if err != nil {
		return true, err
	}
	c.slots[key] = next
	return true, nil
}

func (c *cache) drop(key string) {
	c.mu.Lock()
	delete(c.slots, key)
	c.mu.Unlock()
}

func (c *cache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.slots)
}

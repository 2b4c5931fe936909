// Package viewcache caches rendered view payloads in process memory.
package viewcache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/darasa-app/darasa/core"
)

// Memory is an LRU-backed core.ViewCache. Entries expire after the configured
// TTL so stale payloads are bounded even if an invalidation is missed.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

var _ core.ViewCache = (*Memory)(nil)

func NewMemory(size int, ttl time.Duration) *Memory {
	return &Memory{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *Memory) Get(key string) ([]byte, bool) {
	return c.lru.Get(key)
}

func (c *Memory) Set(key string, payload []byte) {
	c.lru.Add(key, payload)
}

func (c *Memory) Invalidate(keys ...string) {
	for _, key := range keys {
		c.lru.Remove(key)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache memoizes complete pipeline runs, bounded by capacity (LRU)
// and by time (fixed TTL, refreshed on read). Either bound alone is enough
// to evict. The store is injected into the pipeline; there is no package
// state.
package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/pdiddy/repo-scout/pkg/types"
)

// Store is the result cache the pipeline depends on. Implementations must
// be safe for concurrent use.
type Store interface {
	Get(query string, mode types.Mode) (*types.PipelineRun, bool)
	Set(query string, mode types.Mode, run *types.PipelineRun)
}

// ResultCache is the standard LRU+TTL Store.
type ResultCache struct {
	lru *expirable.LRU[string, *types.PipelineRun]
}

// New builds a ResultCache from the cache configuration, applying the
// defaults (capacity 128, TTL 1h) for zero values.
func New(cfg types.CacheConfig) *ResultCache {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 128
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{
		lru: expirable.NewLRU[string, *types.PipelineRun](capacity, nil, ttl),
	}
}

// Key normalizes a query+mode pair into the cache key: lower-cased, trimmed
// query joined to the mode.
func Key(query string, mode types.Mode) string {
	return strings.ToLower(strings.TrimSpace(query)) + ":" + string(mode)
}

// Get returns a copy of the memoized run with Cached set, or (nil, false).
// A hit refreshes the entry's TTL.
func (c *ResultCache) Get(query string, mode types.Mode) (*types.PipelineRun, bool) {
	key := Key(query, mode)
	run, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}

	// Re-adding resets the entry's expiry; the LRU position was already
	// refreshed by the read.
	c.lru.Add(key, run)

	hit := *run
	hit.Cached = true
	return &hit, true
}

// Set memoizes a frozen run.
func (c *ResultCache) Set(query string, mode types.Mode, run *types.PipelineRun) {
	if run == nil {
		return
	}
	c.lru.Add(Key(query, mode), run)
}

// Len reports the number of live entries.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/forward/gpu"
)

// Cache is a gpu.Factory that reuses pipelines for equal descriptors.
//
// Several technique instances built against the same Cache share one
// pipeline when their descriptors hash the same. Cache is safe for
// concurrent use.
type Cache struct {
	factory gpu.Factory

	mu        sync.RWMutex
	pipelines map[uint64]gpu.Pipeline

	hits   uint64
	misses uint64
}

// NewCache returns an empty cache creating pipelines with f.
func NewCache(f gpu.Factory) *Cache {
	return &Cache{
		factory:   f,
		pipelines: make(map[uint64]gpu.Pipeline),
	}
}

// CreatePipeline returns the cached pipeline for desc, creating it on the
// first request.
func (c *Cache) CreatePipeline(desc *gpu.PipelineDescriptor) (gpu.Pipeline, error) {
	if desc == nil {
		return nil, ErrNilDescriptor
	}
	if c.factory == nil {
		return nil, ErrNilFactory
	}

	key := Hash(desc)

	c.mu.RLock()
	if p, ok := c.pipelines[key]; ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pipelines[key]; ok {
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}

	p, err := c.factory.CreatePipeline(desc)
	if err != nil {
		return nil, err
	}
	c.pipelines[key] = p
	atomic.AddUint64(&c.misses, 1)
	slogger().Debug("pipeline cached", "label", desc.Label, "hash", key, "size", len(c.pipelines))
	return p, nil
}

// Stats returns the number of cache hits and misses.
func (c *Cache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// HitRate returns hits / (hits + misses), or 0 before the first request.
func (c *Cache) HitRate() float64 {
	hits, misses := c.Stats()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// Size returns the number of cached pipelines.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}

// Clear forgets every cached pipeline and resets the statistics. The
// pipelines themselves are left to their owners.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pipelines = make(map[uint64]gpu.Pipeline)
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
}

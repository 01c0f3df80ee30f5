// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// HitRecorder counts lookups per named cache.
type HitRecorder interface {
	IncrementCacheHits(cache string)
	IncrementCacheMisses(cache string)
}

// TypedCache stores JSON-encoded values of one type under a key namespace.
type TypedCache[T any] struct {
	cache      Cacher
	name       string
	defaultTTL time.Duration
	metrics    HitRecorder
}

// NewTypedCache wraps cache; keys are stored as "<name>:<key>".
func NewTypedCache[T any](cache Cacher, name string, defaultTTL time.Duration, metrics HitRecorder) *TypedCache[T] {
	return &TypedCache[T]{
		cache:      cache,
		name:       name,
		defaultTTL: defaultTTL,
		metrics:    metrics,
	}
}

func (c *TypedCache[T]) key(k string) string {
	return c.name + ":" + k
}

// Get returns the cached value and true, or nil and false on a miss. Entries
// that no longer decode are treated as misses.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.cache.Get(ctx, c.key(key))
	if err != nil {
		c.recordMiss()
		return nil, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		c.recordMiss()
		return nil, false
	}

	if c.metrics != nil {
		c.metrics.IncrementCacheHits(c.name)
	}
	return &value, true
}

func (c *TypedCache[T]) recordMiss() {
	if c.metrics != nil {
		c.metrics.IncrementCacheMisses(c.name)
	}
}

// Set stores a value with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value *T) error {
	return c.SetWithTTL(ctx, key, value, c.defaultTTL)
}

// SetWithTTL stores a value with a custom TTL.
func (c *TypedCache[T]) SetWithTTL(ctx context.Context, key string, value *T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s cache entry: %w", c.name, err)
	}
	return c.cache.Set(ctx, c.key(key), data, ttl)
}

// Delete removes a key.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, c.key(key))
}

// Purge removes every entry of this cache.
func (c *TypedCache[T]) Purge(ctx context.Context) error {
	return c.cache.DeleteByPrefix(ctx, c.name+":")
}

// Has checks if a key exists.
func (c *TypedCache[T]) Has(ctx context.Context, key string) bool {
	has, _ := c.cache.Has(ctx, c.key(key))
	return has
}

// GetOrSet returns the cached value or computes, stores and returns it.
// A failed store is not an error; the computed value is still returned.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func() (*T, error)) (*T, error) {
	return c.GetOrSetWithTTL(ctx, key, c.defaultTTL, fn)
}

// GetOrSetWithTTL is GetOrSet with a custom TTL.
func (c *TypedCache[T]) GetOrSetWithTTL(ctx context.Context, key string, ttl time.Duration, fn func() (*T, error)) (*T, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	value, err := fn()
	if err != nil {
		return nil, err
	}

	_ = c.SetWithTTL(ctx, key, value, ttl)
	return value, nil
}

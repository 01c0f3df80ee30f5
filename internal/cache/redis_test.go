// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// skipIfNoRedis skips the test if Redis is not configured.
func skipIfNoRedis(t *testing.T) string {
	t.Helper()
	url := os.Getenv("SPACETRAVELING_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: SPACETRAVELING_TEST_REDIS_URL not set")
	}
	return url
}

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	url := skipIfNoRedis(t)

	opts := DefaultRedisCacheOptions()
	opts.URL = url
	opts.Prefix = "spacetraveling-test:"
	opts.DefaultTTL = time.Minute

	cache, err := NewRedisCache(context.Background(), opts)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	t.Cleanup(func() {
		_ = cache.Clear(context.Background())
		_ = cache.Close()
	})
	_ = cache.Clear(context.Background())
	return cache
}

func TestRedisCache_Basic(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "test-key", []byte("test-value"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, "test-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "test-value" {
		t.Errorf("Get returned %q, want %q", got, "test-value")
	}

	if has, err := cache.Has(ctx, "test-key"); err != nil || !has {
		t.Errorf("Has = %v, %v; want true, nil", has, err)
	}

	if err := cache.Delete(ctx, "test-key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "test-key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_DeleteByPrefix(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	for _, k := range []string{"post:a", "post:b", "listing:home"} {
		if err := cache.Set(ctx, k, []byte("v"), 0); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}

	if err := cache.DeleteByPrefix(ctx, "post:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}
	if has, _ := cache.Has(ctx, "post:a"); has {
		t.Error("post:a should be deleted")
	}
	if has, _ := cache.Has(ctx, "listing:home"); !has {
		t.Error("listing:home should remain")
	}
}

func TestRedisCache_Closed(t *testing.T) {
	cache := newTestRedisCache(t)
	_ = cache.Close()

	if _, err := cache.Get(context.Background(), "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close = %v, want ErrCacheClosed", err)
	}
	if err := cache.Ping(context.Background()); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Ping after Close = %v, want ErrCacheClosed", err)
	}
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), RedisCacheOptions{URL: "not-a-redis-url"})
	if err == nil {
		t.Error("expected error for invalid URL")
	}

	_, err = NewRedisCache(context.Background(), RedisCacheOptions{})
	if err == nil {
		t.Error("expected error for empty URL")
	}
}

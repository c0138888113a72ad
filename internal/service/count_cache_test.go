package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestCache(t *testing.T) (*CountCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCountCache(rdb, time.Minute), mr
}

func TestCountCache_SetGetInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, 1); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.Set(ctx, 1, 5)
	if n, ok := cache.Get(ctx, 1); !ok || n != 5 {
		t.Fatalf("Get = (%d, %v), want (5, true)", n, ok)
	}

	cache.Invalidate(ctx, 1)
	if _, ok := cache.Get(ctx, 1); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestCountCache_TTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, 2, 3)
	mr.FastForward(2 * time.Minute)
	if _, ok := cache.Get(ctx, 2); ok {
		t.Fatal("expected miss after TTL, staleness is bounded by the poll interval")
	}
}

func TestCountCache_DisabledClientIsSafe(t *testing.T) {
	cache := NewCountCache(nil, time.Minute)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, 1); ok {
		t.Fatal("disabled cache must always miss")
	}
	cache.Set(ctx, 1, 5)
	cache.Invalidate(ctx, 1, 2, 3)
}

func TestCountCache_RedisDownDegradesToMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := NewCountCache(rdb, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, 1, 7)
	mr.Close()

	if _, ok := cache.Get(ctx, 1); ok {
		t.Fatal("a down redis must read as a miss, not an error")
	}
	cache.Set(ctx, 1, 8)
	cache.Invalidate(ctx, 1)
}

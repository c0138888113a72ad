package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// CountCache holds unread counts in redis for the poll endpoint. Staleness
// up to the TTL is acceptable; writes by the counted user invalidate
// eagerly. Redis being down degrades to a cache miss, never to an error.
type CountCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCountCache wraps a redis client. A nil client disables caching.
func NewCountCache(rdb *redis.Client, ttl time.Duration) *CountCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CountCache{rdb: rdb, ttl: ttl}
}

func countKey(userID uint) string {
	return fmt.Sprintf("unread_count:%d", userID)
}

func (c *CountCache) Get(ctx context.Context, userID uint) (int, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}
	n, err := c.rdb.Get(ctx, countKey(userID)).Int()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[cache] get count for user %d: %v", userID, err)
		}
		return 0, false
	}
	return n, true
}

func (c *CountCache) Set(ctx context.Context, userID uint, count int) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, countKey(userID), count, c.ttl).Err(); err != nil {
		log.Printf("[cache] set count for user %d: %v", userID, err)
	}
}

func (c *CountCache) Invalidate(ctx context.Context, userIDs ...uint) {
	if c == nil || c.rdb == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, countKey(id))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[cache] invalidate counts: %v", err)
	}
}

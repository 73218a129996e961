package service

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// EventsCache invalidates the cached event listings after any commit
// that changes an event's capacity or descriptive fields. The response
// cache middleware stores entries under hashed keys below a shared
// prefix, so invalidation scans the prefix and deletes whatever is
// there. A nil receiver or nil client is a no-op, which lets the
// service run without Redis.
type EventsCache struct {
	rdb    *redis.Client
	prefix string
}

// NewEventsCache returns an invalidator for keys under prefix.
func NewEventsCache(rdb *redis.Client, prefix string) *EventsCache {
	return &EventsCache{rdb: rdb, prefix: prefix}
}

// Invalidate removes every cached entry under the configured prefix.
func (c *EventsCache) Invalidate(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, c.prefix+":*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

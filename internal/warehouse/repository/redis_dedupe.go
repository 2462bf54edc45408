package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Scanner guns routinely double-fire, delivering the same read twice within
// milliseconds. Absorbing the duplicate here keeps a double-fired destination
// scan from running two transfers.
const dedupeKeyTTL = 10 * time.Second

// RedisEventDeduper implements scan.EventDeduper on Redis SETNX with a short
// TTL. The first delivery of a key wins; replays inside the window lose.
type RedisEventDeduper struct {
	client *redis.Client
}

// NewRedisEventDeduper creates a new deduper
func NewRedisEventDeduper(client *redis.Client) *RedisEventDeduper {
	return &RedisEventDeduper{client: client}
}

// FirstDelivery reports whether key has not been seen inside the TTL window
func (d *RedisEventDeduper) FirstDelivery(ctx context.Context, key string) (bool, error) {
	return d.client.SetNX(ctx, "dedupe:"+key, 1, dedupeKeyTTL).Result()
}

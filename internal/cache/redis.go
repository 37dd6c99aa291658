package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fireregsco/crm/internal/pkg/logger"
)

// keyspace prefixes every key so a shared Redis instance can be flushed
// safely with Clear.
const keyspace = "crm:"

// Redis is the Redis-backed Store. Errors degrade to cache misses; the
// cache is an optimization, never a source of truth.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed cache around an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, keyspace+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("redis cache get failed", "key", key, "error", err.Error())
		return nil, false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, keyspace+key, value, ttl).Err(); err != nil {
		logger.Warn("redis cache set failed", "key", key, "error", err.Error())
	}
}

func (r *Redis) Invalidate(ctx context.Context, key string) {
	if err := r.client.Del(ctx, keyspace+key).Err(); err != nil {
		logger.Warn("redis cache del failed", "key", key, "error", err.Error())
	}
}

func (r *Redis) InvalidateByPrefix(ctx context.Context, prefix string) {
	r.deleteByPattern(ctx, keyspace+prefix+"*")
}

func (r *Redis) Clear(ctx context.Context) {
	r.deleteByPattern(ctx, keyspace+"*")
}

func (r *Redis) deleteByPattern(ctx context.Context, pattern string) {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			logger.Warn("redis cache scan failed", "pattern", pattern, "error", err.Error())
			return
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				logger.Warn("redis cache del failed", "pattern", pattern, "error", err.Error())
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

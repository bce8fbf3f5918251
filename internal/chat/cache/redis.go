// internal/chat/cache/redis.go
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"wealth-assistant/internal/common/logger"
)

// Redis is the shared cache backend for multi-instance deployments. TTL
// expiry is delegated to Redis; the capacity bound is left to the server's
// own eviction policy.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, prefix string, log logger.Logger) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"component": "cache"}),
	}
}

func (r *Redis) Get(ctx context.Context, query string) (string, bool) {
	val, err := r.client.Get(ctx, r.prefix+Normalize(query)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		// A cache read failure is a miss, never a turn failure.
		r.logger.Warn("cache read failed", map[string]interface{}{"error": err.Error()})
		return "", false
	}
	return val, true
}

func (r *Redis) Put(ctx context.Context, query, message string) {
	if err := r.client.Set(ctx, r.prefix+Normalize(query), message, r.ttl).Err(); err != nil {
		r.logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (r *Redis) Clear(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("cache clear scan failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			r.logger.Warn("cache clear failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

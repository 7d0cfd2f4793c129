package dedupe

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"eventops/internal/redemption"
)

const scanKeyPrefix = "dedupe:scan:"

// RedisCache keeps a station's suppression window across process restarts.
// The namespace keeps stations isolated: one station's window never hides
// another station's scans. Still advisory only; failures degrade to "not
// suppressed".
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	namespace string
}

func NewRedisCache(client *redis.Client, ttl time.Duration, namespace string) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl, namespace: namespace}
}

func (c *RedisCache) key(key Key) string {
	return scanKeyPrefix + c.namespace + ":" + key.String()
}

func (c *RedisCache) Lookup(ctx context.Context, key Key) (*redemption.RecordResult, bool) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		// Treat an unreachable cache as a miss; the recorder is authoritative.
		return nil, false
	}
	var result redemption.RecordResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Remember(ctx context.Context, key Key, result *redemption.RecordResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(key), raw, c.ttl).Err()
}

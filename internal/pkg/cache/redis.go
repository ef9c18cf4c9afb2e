package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs Store onto a Redis instance. Backend errors are
// swallowed: a failed read is a cache miss and a failed write is skipped,
// so the caller falls through to the database either way.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (r *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) {
	r.client.Set(ctx, r.key(key), value, ttl)
}

func (r *RedisStore) Delete(ctx context.Context, key string) {
	r.client.Del(ctx, r.key(key))
}

// Package cache provides a small key/value store used to memoize tax
// configuration lookups. The store is injected rather than global so
// services can run against memory in tests and Redis in production.
package cache

import (
	"context"
	"time"
)

// Store is a string key/value cache with per-key TTL. Get returns
// (value, true) on a hit; misses and backend errors both read as a miss.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

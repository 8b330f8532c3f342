// Package cache exposes the key/value store shared by the services for
// read-through response caching. Keys follow the item/listing namespace
// ("post:{id}", "posts:{page}:{limit}") and invalidation of a listing namespace
// goes through DeletePattern so callers never have to enumerate listing keys.
package cache

import (
	"context"
	"errors"
	"time"
)

var ErrMiss = errors.New("cache: miss")

type Store interface {
	// Get returns the cached value or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePattern removes every key matching a glob pattern, e.g. "posts:*".
	DeletePattern(ctx context.Context, pattern string) error
	Close() error
}

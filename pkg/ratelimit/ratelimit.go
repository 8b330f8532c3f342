// Package ratelimit implements fixed-window request limiting over a shared
// counter store, so quotas hold across multiple gateway/service instances.
package ratelimit

import (
	"context"
	"time"
)

// Store is the shared counter backend. Incr atomically increments the counter
// behind key, starting a new window of the given length when the key is first
// touched, and returns the count within the current window. A counter that has
// never been touched behaves as if at zero.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter is one policy: at most limit requests per window per client key.
// Policies with different prefixes never share counters.
type Limiter struct {
	store  Store
	prefix string
	limit  int64
	window time.Duration
}

func New(store Store, prefix string, limit int64, window time.Duration) *Limiter {
	return &Limiter{store: store, prefix: prefix, limit: limit, window: window}
}

// Allow consumes one unit of quota for clientKey and reports whether the
// request is within the limit. The increment happens even for rejected
// requests, matching counter-based limiters: abusive clients keep pushing
// their own window out.
func (l *Limiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	n, err := l.store.Incr(ctx, l.prefix+":"+clientKey, l.window)
	if err != nil {
		return false, err
	}
	return n <= l.limit, nil
}

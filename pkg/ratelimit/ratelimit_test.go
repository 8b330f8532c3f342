package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowsUpToQuota(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	l := New(store, "rl:burst", 10, time.Second)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		ok, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, ok, "11th request in the window must be rejected")
}

func TestLimiter_ResetsAfterWindow(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	current := time.Now()
	store.SetClock(func() time.Time { return current })

	l := New(store, "rl:burst", 2, time.Second)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	require.False(t, ok)

	current = current.Add(time.Second + time.Millisecond)

	ok, err = l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, ok, "first request of the next window must succeed")
}

func TestLimiter_SeparateClientsAndPolicies(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	burst := New(store, "rl:burst", 1, time.Second)
	window := New(store, "rl:win", 1, 15*time.Minute)
	ctx := context.Background()

	ok, err := burst.Allow(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)

	// Other clients keep their own counters.
	ok, err = burst.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	// Exhausting the burst policy must not consume window quota for the same client.
	ok, err = burst.Allow(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = window.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_TiersWithDistinctPrefixesKeepSeparateQuotas(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	gateway := New(store, "rl:burst", 2, time.Second)
	service := New(store, "rl:burst:post", 2, time.Second)
	ctx := context.Background()

	// One logical request passes both tiers; each tier counts it once.
	for i := 0; i < 2; i++ {
		ok, err := gateway.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = service.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		require.True(t, ok, "request %d must not be double-counted against the service tier", i+1)
	}

	ok, err := gateway.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_ConcurrentIncr(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	counts := make([]int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			c, err := store.Incr(ctx, "k", time.Minute)
			require.NoError(t, err)
			counts[idx] = c
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, c := range counts {
		assert.False(t, seen[c], "counter value %d observed twice", c)
		seen[c] = true
	}
	assert.Len(t, seen, n)
}

package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryBucket struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a process-local Store for tests and single-node setups.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket

	// now is swappable so tests can step through windows.
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*memoryBucket),
		now:     time.Now,
	}
}

// SetClock overrides the store clock; test helper.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok || !s.now().Before(b.resetAt) {
		b = &memoryBucket{resetAt: s.now().Add(window)}
		s.buckets[key] = b
	}
	b.count++
	return b.count, nil
}

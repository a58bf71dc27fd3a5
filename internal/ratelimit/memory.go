package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleExpiry = 5 * time.Minute

type bucket struct {
	limiter *rate.Limiter
	expires time.Time
}

// Memory is an in-process token bucket per key. Idle keys are swept lazily.
type Memory struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewMemory allows perMinute requests per key per minute with a burst of half that.
func NewMemory(perMinute int) *Memory {
	perMinute = max(perMinute, 1)
	return &Memory{
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   max(perMinute/2, 1),
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked(now)

	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.buckets[key] = b
	}
	b.expires = now.Add(idleExpiry)
	return b.limiter.AllowN(now, 1), nil
}

func (m *Memory) sweepLocked(now time.Time) {
	for key, b := range m.buckets {
		if now.After(b.expires) {
			delete(m.buckets, key)
		}
	}
}

package memory

import (
	"context"
	"sync"
	"time"

	"tourline/internal/app/policies"
)

// AttemptLimiter is a fixed-window limiter backed by a map. Windows are
// pruned lazily on access, so the map stays bounded by active keys.
type AttemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	clock   func() time.Time
	buckets map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
}

func NewAttemptLimiter(max int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{
		max:     max,
		window:  window,
		clock:   time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (l *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		l.buckets[key] = &bucket{count: 1, resetAt: now.Add(l.window)}
		l.prune(now)
		return true, nil
	}
	if b.count >= l.max {
		return false, nil
	}
	b.count++
	return true, nil
}

func (l *AttemptLimiter) prune(now time.Time) {
	for key, b := range l.buckets {
		if now.After(b.resetAt) {
			delete(l.buckets, key)
		}
	}
}

var _ policies.AttemptLimiter = (*AttemptLimiter)(nil)

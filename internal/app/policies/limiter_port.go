package policies

import "context"

// AttemptLimiter bounds how often a given key may perform an action
// inside a rolling window. Implementations own the window semantics.
type AttemptLimiter interface {
	// Allow reports whether the key may proceed and records the attempt.
	Allow(ctx context.Context, key string) (bool, error)
}

// UnlimitedLimiter never rejects. Used when rate limiting is disabled.
type UnlimitedLimiter struct{}

func (UnlimitedLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

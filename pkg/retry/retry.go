package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
	}
}

// Permanent marks err as not worth retrying; Retry returns it immediately.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Retry runs fn with exponential backoff until it succeeds, returns a
// permanent error, the attempt budget is spent, or ctx is done.
func Retry(ctx context.Context, policy Policy, fn func() error) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialInterval
	b.MaxInterval = policy.MaxInterval
	b.Multiplier = policy.Multiplier
	b.MaxElapsedTime = 0
	b.Reset()

	wrapped := backoff.WithContext(backoff.WithMaxRetries(b, uint64(policy.MaxAttempts-1)), ctx)
	return backoff.Retry(fn, wrapped)
}

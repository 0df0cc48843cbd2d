package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy retries with linearly increasing waits: Step, 2*Step, 3*Step...
type RetryPolicy struct {
	MaxAttempts int
	Step        time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Step:        500 * time.Millisecond,
	}
}

func NormalizeRetryPolicy(p RetryPolicy) RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultRetryPolicy().MaxAttempts
	}
	if p.Step < 0 {
		p.Step = 0
	}
	return p
}

// Delay is the wait before retry number attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	return p.Step * time.Duration(attempt)
}

type linearBackOff struct {
	policy  RetryPolicy
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.policy.Delay(b.attempt)
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}

// Permanent marks err as not worth retrying. Retry returns it unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// RetryNotify is called before each wait with the failed attempt number.
type RetryNotify func(err error, attempt int, wait time.Duration)

// Retry runs op until it succeeds, returns a Permanent error, the context ends,
// or MaxAttempts is reached. The last error is returned on exhaustion.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(attempt int) (T, error), notify RetryNotify) (T, error) {
	policy = NormalizeRetryPolicy(policy)

	attempt := 0
	operation := func() (T, error) {
		attempt++
		return op(attempt)
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(&linearBackOff{policy: policy}),
		backoff.WithMaxTries(uint(policy.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(func(err error, wait time.Duration) {
			notify(err, attempt, wait)
		}))
	}

	return backoff.Retry(ctx, operation, opts...)
}

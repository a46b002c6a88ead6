package remote

import (
	"context"
	"errors"
	"time"
)

// DefaultRetryDelays is the fixed backoff schedule: the attempt index selects
// the delay, so a call makes at most len(DefaultRetryDelays)+1 attempts.
var DefaultRetryDelays = []time.Duration{
	500 * time.Millisecond,
	1000 * time.Millisecond,
	2000 * time.Millisecond,
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// RetryPolicy drives Retry. Delays has one entry per retry.
type RetryPolicy struct {
	Delays  []time.Duration
	Sleep   Sleeper
	OnRetry func(attempt int, delay time.Duration, err error)
}

// retryableError marks a failure as transient.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retryable marks err as transient so Retry will try again.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// Retry calls fn until it succeeds, returns an error not marked Retryable, or
// the policy's delays run out. Unmarked errors are returned unchanged. When
// retries are exhausted the result is a *TransportError wrapping the last
// transient cause.
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var last error
	attempts := len(p.Delays) + 1
	for attempt := 0; attempt < attempts; attempt++ {
		v, err := fn(ctx, attempt)
		if err == nil {
			return v, nil
		}
		var re *retryableError
		if !errors.As(err, &re) {
			return zero, err
		}
		last = re.err

		if attempt < len(p.Delays) {
			delay := p.Delays[attempt]
			if p.OnRetry != nil {
				p.OnRetry(attempt+1, delay, last)
			}
			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
		}
	}
	return zero, &TransportError{Attempts: attempts, Cause: last}
}

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

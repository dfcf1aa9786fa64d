// Package retry provides exponential backoff with jitter for retrying transient failures.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Policy bounds how often and how quickly an operation is retried.
// Jitter is the fractional spread applied to each delay (0.1 = +/-10%).
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       float64
}

// Hook observes a scheduled retry before the wait begins.
type Hook func(attempt int, delay time.Duration, err error)

// Delay returns the wait before retry number attempt (zero-based):
// InitialDelay * Multiplier^attempt, spread by Jitter and capped at MaxDelay.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	backoff := float64(p.InitialDelay) * math.Pow(multiplier, float64(attempt))

	if p.Jitter > 0 {
		backoff *= 1 - p.Jitter + 2*p.Jitter*rand.Float64()
	}

	if p.MaxDelay > 0 && backoff > float64(p.MaxDelay) {
		backoff = float64(p.MaxDelay)
	}

	return time.Duration(backoff)
}

// Wait blocks for d or until ctx is done, returning ctx.Err() in the latter case.
func Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do calls fn until it succeeds, returns an error retryable rejects, or the
// policy's retries are exhausted. fn receives the zero-based attempt number.
// The last error from fn is returned when retries run out.
func Do[T any](
	ctx context.Context,
	p Policy,
	retryable func(error) bool,
	fn func(attempt int) (T, error),
	hook Hook,
) (T, error) {
	var zero T

	for attempt := 0; ; attempt++ {
		result, err := fn(attempt)
		if err == nil {
			return result, nil
		}

		if attempt >= p.MaxRetries || !retryable(err) {
			return zero, err
		}

		delay := p.Delay(attempt)
		if hook != nil {
			hook(attempt+1, delay, err)
		}

		if werr := Wait(ctx, delay); werr != nil {
			return zero, err
		}
	}
}

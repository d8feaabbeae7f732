package ghclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spiffcs/repohealth/internal/log"
)

// Retry policy defaults.
const (
	DefaultMaxAttempts       = 3
	DefaultBaseDelay         = 1 * time.Second
	DefaultMaxResetWait      = 15 * time.Minute
	DefaultRateLimitFallback = 60 * time.Second
)

// RetryPolicy controls how a Retryer spaces and bounds its attempts.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries for a single logical call.
	MaxAttempts int

	// BaseDelay is the backoff for the first retry; it doubles per attempt.
	BaseDelay time.Duration

	// MaxResetWait caps how long a rate-limit reset wait may block. A reset
	// time further away than this is clamped before sleeping.
	MaxResetWait time.Duration

	// RateLimitFallback is the wait used when the API signals a rate limit
	// without supplying a reset time.
	RateLimitFallback time.Duration
}

// DefaultRetryPolicy returns the standard retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       DefaultMaxAttempts,
		BaseDelay:         DefaultBaseDelay,
		MaxResetWait:      DefaultMaxResetWait,
		RateLimitFallback: DefaultRateLimitFallback,
	}
}

// Retryer wraps a single remote call with bounded retries and exponential
// backoff. Fatal errors abort immediately, rate limits wait for the reset,
// and every wait is abortable through the caller's context.
type Retryer struct {
	policy RetryPolicy

	// sleep and now are swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewRetryer creates a Retryer, filling unset policy fields with defaults.
func NewRetryer(policy RetryPolicy) *Retryer {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultBaseDelay
	}
	if policy.MaxResetWait <= 0 {
		policy.MaxResetWait = DefaultMaxResetWait
	}
	if policy.RateLimitFallback <= 0 {
		policy.RateLimitFallback = DefaultRateLimitFallback
	}
	return &Retryer{
		policy: policy,
		sleep:  sleepCtx,
		now:    time.Now,
	}
}

// Do runs op until it succeeds, fails fatally, or the attempt budget is
// spent. The retry state (attempt counter, current delay, last error) lives
// entirely within one call and is never shared.
func (r *Retryer) Do(ctx context.Context, op func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		err = classify(err)
		if IsFatal(err) {
			return err
		}
		lastErr = err

		if attempt == r.policy.MaxAttempts {
			break
		}

		var rle *RateLimitError
		if errors.As(err, &rle) {
			wait := r.resetWait(rle)
			log.Warn("rate limit reached, waiting",
				"wait", wait.Round(time.Second).String(),
				"attempt", attempt)
			if serr := r.sleep(ctx, wait); serr != nil {
				return serr
			}
			continue
		}

		backoff := r.policy.BaseDelay << (attempt - 1)
		log.Debug("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff.String(),
			"error", err)
		if serr := r.sleep(ctx, backoff); serr != nil {
			return serr
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", r.policy.MaxAttempts, lastErr)
}

// resetWait computes how long to pause for a rate limit, clamped to the
// configured ceiling so a bogus reset time cannot block a scan for hours.
func (r *Retryer) resetWait(e *RateLimitError) time.Duration {
	if e.ResetAt.IsZero() {
		return r.policy.RateLimitFallback
	}
	wait := e.ResetAt.Sub(r.now()) + time.Second
	if wait < 0 {
		wait = 0
	}
	if wait > r.policy.MaxResetWait {
		wait = r.policy.MaxResetWait
	}
	return wait
}

// sleepCtx blocks for d or until ctx is canceled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Package retry provides backoff policies for transient failures.
package retry

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/glueregen/internal/config"
)

const (
	fallbackInitial = time.Second
	fallbackMax     = 30 * time.Second
)

// Policy spaces out retries of a refresh.
type Policy struct {
	Mode       config.RetryBackoffMode
	Initial    time.Duration
	Max        time.Duration
	MaxRetries int // retries after the first attempt
}

// FromConfig builds a policy from the refresh retry settings. Unknown modes
// back off linearly; missing delays fall back to 1s growing to at most 30s.
func FromConfig(rc config.RetryConfig) Policy {
	initial, maxDelay := rc.Delays()
	p := Policy{
		Mode:       config.NormalizeRetryBackoff(string(rc.Backoff)),
		Initial:    initial,
		Max:        maxDelay,
		MaxRetries: max(rc.MaxRetries, 0),
	}
	if p.Mode == "" {
		p.Mode = config.RetryBackoffLinear
	}
	if p.Initial <= 0 {
		p.Initial = fallbackInitial
	}
	if p.Max <= 0 {
		p.Max = max(fallbackMax, p.Initial)
	}
	p.Initial = min(p.Initial, p.Max)
	return p
}

// Delay is the wait before retry n (1-based), capped at Max.
func (p Policy) Delay(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case config.RetryBackoffFixed:
		d = p.Initial
	case config.RetryBackoffExponential:
		d = p.Initial
		for i := 1; i < n && d < p.Max; i++ {
			d *= 2
		}
	default:
		d = p.Initial * time.Duration(n)
	}
	if d <= 0 || d > p.Max {
		return p.Max
	}
	return d
}

// Do runs fn until it succeeds, permanent reports the error as not worth
// retrying, the retries are used up or ctx is done. onRetry, when set, is
// called before each retry with the 1-based retry number and the last error.
func (p Policy) Do(ctx context.Context, fn func() error, permanent func(error) bool, onRetry func(int, error)) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if (permanent != nil && permanent(err)) || attempt >= p.MaxRetries {
			return err
		}
		if onRetry != nil {
			onRetry(attempt+1, err)
		}
		timer := time.NewTimer(p.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (last error: %w)", ctx.Err(), err)
		case <-timer.C:
		}
	}
}

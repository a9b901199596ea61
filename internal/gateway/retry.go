package gateway

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds how transient upstream failures are retried. It is an
// explicit value passed into the dispatcher so retry behavior is testable in
// isolation.
type RetryPolicy struct {
	// MaxAttempts is the total number of upstream calls for one invocation,
	// including the first. Exhausting it yields an UpstreamUnavailable error.
	MaxAttempts int

	// InitialInterval is the first backoff delay.
	InitialInterval time.Duration

	// MaxInterval caps the delay growth.
	MaxInterval time.Duration

	// Multiplier is the exponential growth factor between delays.
	Multiplier float64

	// RandomizationFactor jitters each delay to avoid thundering herds.
	RandomizationFactor float64
}

// DefaultRetryPolicy matches the bounded schedule used in production:
// three attempts with jittered exponential delays starting at half a second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:         3,
		InitialInterval:     500 * time.Millisecond,
		MaxInterval:         10 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.5,
	}
}

// newBackOff materializes the schedule as a backoff source. Each invocation
// gets its own instance; BackOff values are stateful.
func (p RetryPolicy) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = p.RandomizationFactor
	b.Reset()
	return b
}

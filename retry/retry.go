// Package retry provides the bounded retry policy wrapped around the
// prediction pipeline. A Policy is a plain value object fixed per engine
// instance; execution is delegated to cenkalti/backoff. Wrapped operations
// must be idempotent; the pipeline qualifies since it only reads state and
// returns a value.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds re-attempts of a failing operation: exponentially increasing
// inter-attempt delay capped at MaxInterval, a total wall-clock budget and a
// maximum attempt count. Attempts never run concurrently.
type Policy struct {
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	MaxElapsedTime  time.Duration `yaml:"max_elapsed_time"`
	MaxAttempts     uint64        `yaml:"max_attempts"`
}

// DefaultPolicy is suitable for transient backend hiccups without stalling
// interactive requests.
var DefaultPolicy = Policy{
	InitialInterval: 100 * time.Millisecond,
	MaxInterval:     time.Second,
	MaxElapsedTime:  10 * time.Second,
	MaxAttempts:     3,
}

// normalized returns a copy with zero values replaced by defaults.
func (p Policy) normalized() Policy {
	if p.InitialInterval <= 0 {
		p.InitialInterval = DefaultPolicy.InitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = DefaultPolicy.MaxInterval
	}
	if p.MaxElapsedTime <= 0 {
		p.MaxElapsedTime = DefaultPolicy.MaxElapsedTime
	}
	if p.MaxAttempts == 0 {
		p.MaxAttempts = DefaultPolicy.MaxAttempts
	}
	return p
}

// Do re-invokes op until it succeeds or the policy's attempt/time budget is
// exhausted, returning the last failure. Context cancellation stops waiting
// immediately.
func (p Policy) Do(ctx context.Context, op func() error) error {
	np := p.normalized()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = np.InitialInterval
	bo.MaxInterval = np.MaxInterval
	bo.MaxElapsedTime = np.MaxElapsedTime

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, np.MaxAttempts-1), ctx))
}

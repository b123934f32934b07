// Package retry provides a configurable retry mechanism for operations that may fail temporarily.
// It wraps the retry-go package from Avast and exposes a simple interface with functional
// options for customizing retry behavior.
//
// The package implements an exponential backoff strategy by default.
//
// Basic usage:
//
//	r := retry.New(retry.WithAttempts(5))
//	errs := r.Execute(ctx, func() error {
//	    return fetchLogRange(ctx, from, to)
//	})
package retry

import (
	"context"
	"errors"
	"time"

	retry "github.com/avast/retry-go/v4"
)

// Retry defines the interface for retry operations.
type Retry interface {
	// Execute runs the given function with configured retry logic.
	//
	// The context allows for cancellation. If the context is canceled while
	// waiting between attempts, retrying stops and the context error is part
	// of the returned slice.
	//
	// The operation should be idempotent.
	//
	// Execute returns nil if the operation succeeds within the configured number
	// of attempts, or the errors of every failed attempt otherwise.
	Execute(ctx context.Context, operation func() error) []error
}

// config holds internal settings for the retry mechanism.
type config struct {
	attempts uint          // maximum number of attempts
	delay    time.Duration // base delay between attempts
	maxDelay time.Duration // maximum delay between attempts
}

// Option defines a functional option for configuring the retry mechanism.
type Option func(*config)

// retrier implements the Retry interface using the retry-go package.
type retrier struct {
	cfg config
}

// Compile-time assertion that retrier implements Retry interface
var _ Retry = (*retrier)(nil)

// New creates and returns a Retry implementation configured with
// the provided options.
//
// Default configuration:
//   - attempts: 3 (1 initial attempt + 2 retries)
//   - delay:    1 second (grows exponentially)
//   - maxDelay: 5 seconds
func New(opts ...Option) Retry {
	cfg := config{
		attempts: 3,
		delay:    1 * time.Second,
		maxDelay: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &retrier{
		cfg: cfg,
	}
}

// Execute implements the Retry interface.
func (r *retrier) Execute(ctx context.Context, operation func() error) []error {
	err := retry.Do(operation,
		retry.Attempts(r.cfg.attempts),
		retry.Delay(r.cfg.delay),
		retry.MaxDelay(r.cfg.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(false),
		retry.Context(ctx),
	)
	if err == nil {
		return nil
	}

	var retryErrs retry.Error
	if !errors.As(err, &retryErrs) {
		return []error{err}
	}

	errs := make([]error, 0, len(retryErrs))
	for _, e := range retryErrs.WrappedErrors() {
		if e != nil {
			errs = append(errs, e)
		}
	}

	return errs
}

// WithAttempts sets the maximum number of attempts (including the initial attempt).
// Default: 3.
func WithAttempts(n uint) Option {
	return func(c *config) {
		c.attempts = n
	}
}

// WithDelay sets the base delay between retry attempts.
// Default: 1 second.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithMaxDelay caps the exponential growth of the delay.
// Default: 5 seconds.
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) {
		c.maxDelay = d
	}
}

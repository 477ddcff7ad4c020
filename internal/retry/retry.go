// Package retry wraps fallible remote operations with bounded exponential
// backoff plus jitter. Only transient transport failures (network, timeout,
// 5xx, and a fixed set of retryable status codes) are retried; validation and
// auth errors propagate immediately because retrying them can never succeed.
package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

// jitterFraction is the spread applied around the exponential term: the delay
// for each attempt is drawn uniformly from ±30% of it. Spreading retries out
// avoids synchronized retry storms across concurrent operations.
const jitterFraction = 0.3

// Config controls the retry loop. Use [NewConfig] to build one from the
// client configuration with the standard retryable sets.
type Config struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	// InitialDelay is the backoff base for the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the computed delay for any attempt.
	MaxDelay time.Duration
	// BackoffMultiplier is the exponential growth factor.
	BackoffMultiplier float64
	// RetryableStatuses lists HTTP status codes that are retried regardless
	// of error kind.
	RetryableStatuses map[int]struct{}
	// RetryableKinds lists transport error kinds that are retried.
	RetryableKinds map[adapter.Kind]struct{}
}

// DefaultRetryableStatuses returns the standard set of transient status
// codes: request timeout, rate limiting, and the common 5xx gateway family.
func DefaultRetryableStatuses() map[int]struct{} {
	return map[int]struct{}{
		408: {},
		429: {},
		500: {},
		502: {},
		503: {},
		504: {},
	}
}

// DefaultRetryableKinds returns the transport error kinds eligible for retry.
func DefaultRetryableKinds() map[adapter.Kind]struct{} {
	return map[adapter.Kind]struct{}{
		adapter.KindNetwork: {},
		adapter.KindTimeout: {},
		adapter.KindServer:  {},
	}
}

// NewConfig builds a Config from the client retry settings with the default
// retryable sets.
func NewConfig(cfg config.ClientRetry) Config {
	return Config{
		MaxRetries:        cfg.MaxRetries,
		InitialDelay:      cfg.InitialDelay,
		MaxDelay:          cfg.MaxDelay,
		BackoffMultiplier: cfg.BackoffMultiplier,
		RetryableStatuses: DefaultRetryableStatuses(),
		RetryableKinds:    DefaultRetryableKinds(),
	}
}

// retryable applies the decision rule: retry iff the error kind is in the
// retryable-kind set or the error carries a status code in the
// retryable-status set. Anything else (validation, auth, non-transport
// errors) fails fast.
func (c Config) retryable(err error) bool {
	if err == nil {
		return false
	}
	if !adapter.IsTransport(err) {
		return false
	}
	if _, ok := c.RetryableKinds[adapter.KindOf(err)]; ok {
		return true
	}
	_, ok := c.RetryableStatuses[adapter.StatusOf(err)]
	return ok
}

// delay computes the sleep before retry attempt n (0-indexed):
// min(initialDelay × multiplier^n ± jitter, maxDelay).
func (c Config) delay(attempt int) time.Duration {
	exp := float64(c.InitialDelay)
	for i := 0; i < attempt; i++ {
		exp *= c.BackoffMultiplier
	}

	jitter := (rand.Float64()*2 - 1) * jitterFraction * exp
	d := time.Duration(exp + jitter)
	if d > c.MaxDelay {
		d = c.MaxDelay
	}
	if d < 0 {
		d = 0
	}
	return d
}

// Do runs fn with the configured retry policy. The operation is invoked at
// most 1+MaxRetries times; the last error is returned once retries are
// exhausted. Sleeps between attempts respect ctx cancellation.
func Do[T any](ctx context.Context, cfg Config, log *logger.Logger, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt >= cfg.MaxRetries || !cfg.retryable(err) {
			return zero, lastErr
		}

		wait := cfg.delay(attempt)
		log.Warn().
			Str("op", op).
			Int("attempt", attempt+1).
			Int("max_retries", cfg.MaxRetries).
			Dur("delay", wait).
			Err(err).
			Msg("transient failure, retrying")

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// DoErr is Do for operations that return only an error.
func DoErr(ctx context.Context, cfg Config, log *logger.Logger, op string, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, cfg, log, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Package retry provides retry functionality with exponential backoff and jitter.
// The schedule engine itself never retries; this package implements the caller
// policy used by the CLI when refreshing schedules over a flaky connection.
// No external dependencies - uses only standard library.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// PermanentError indicates that an error should not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps an error to indicate it should not be retried.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent checks if an error is permanent (should not be retried).
func IsPermanent(err error) bool {
	var permanentErr *PermanentError
	return errors.As(err, &permanentErr)
}

// Config holds retry configuration.
type Config struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration

	// Multiplier is the factor by which the delay grows per attempt.
	Multiplier float64

	// JitterFactor adds randomness to delays (0.0 = none, 1.0 = full jitter).
	JitterFactor float64

	// OnRetry is called before each retry attempt, useful for logging.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// Delay returns the backoff delay for the given retry attempt (1-based).
func (c Config) Delay(attempt int) time.Duration {
	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt-1))
	if c.JitterFactor > 0 {
		jitter := delay * c.JitterFactor
		delay += jitter * (2*rand.Float64() - 1)
	}
	if max := float64(c.MaxDelay); delay > max {
		delay = max
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// Do executes fn, retrying on failure according to the configuration.
// Permanent errors and context cancellation stop the retries immediately.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if IsPermanent(lastErr) {
			var perm *PermanentError
			errors.As(lastErr, &perm)
			return perm.Err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		delay := cfg.Delay(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

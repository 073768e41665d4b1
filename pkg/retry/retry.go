package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry configuration. The delay before attempt n+1 is
// n*Delay (linear backoff).
type Config struct {
	MaxAttempts int
	Delay       time.Duration
	// Retryable decides whether a failed attempt may be repeated. A nil
	// Retryable retries every error.
	Retryable func(err error) bool
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Delay:       500 * time.Millisecond,
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, the attempts
// are used up, or ctx is done. The last error from fn is wrapped in the result.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	return DoWithLog(ctx, cfg, fn, nil)
}

// DoWithLog is Do with a hook invoked before each retry.
func DoWithLog(ctx context.Context, cfg Config, fn func(ctx context.Context) error, logFn func(attempt int, err error, nextDelay time.Duration)) error {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("retry aborted after %d attempts: %w", attempt-1, lastErr)
			}
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if cfg.Retryable != nil && !cfg.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		delay := time.Duration(attempt) * cfg.Delay
		if logFn != nil {
			logFn(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt, lastErr)
		case <-timer.C:
		}
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", attempts, lastErr)
}

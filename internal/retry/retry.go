// internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxRetries is the number of attempts made for one product page
const MaxRetries = 3

// Config defines retry behavior. Multiplier 1 gives a fixed backoff.
type Config struct {
	MaxAttempts    int           // Maximum number of attempts, including the first
	InitialBackoff time.Duration // Backoff before the second attempt
	MaxBackoff     time.Duration // Upper bound for any backoff
	Multiplier     float64       // Backoff multiplier

	// Permanent reports errors that must not be retried. Context
	// cancellation is always permanent.
	Permanent func(error) bool
}

// DefaultConfig returns the fixed two second backoff used for product pages
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    MaxRetries,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     2 * time.Second,
		Multiplier:     1,
	}
}

// ExhaustedError is returned when every attempt failed
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("operation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// WithRetry executes fn until it succeeds, fails permanently, or runs out of attempts.
// fn receives the 1-based attempt number. The number of attempts made is returned
// alongside the outcome.
func WithRetry(ctx context.Context, cfg Config, fn func(attempt int) error) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			return attempt - 1, lastErr
		}

		err := fn(attempt)
		if err == nil {
			if attempt > 1 {
				log.Debug().
					Int("attempts", attempt).
					Msg("Retry succeeded")
			}
			return attempt, nil
		}

		lastErr = err

		if !shouldRetry(ctx, err, cfg) {
			log.Debug().
				Err(err).
				Msg("Error is not retryable")
			return attempt, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxAttempts {
			backoff := calculateBackoff(attempt-1, cfg)

			log.Debug().
				Int("attempt", attempt).
				Int("max_attempts", cfg.MaxAttempts).
				Dur("backoff", backoff).
				Err(err).
				Msg("Retrying after backoff")

			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return attempt, lastErr
			}
		}
	}

	log.Warn().
		Int("attempts", cfg.MaxAttempts).
		Err(lastErr).
		Msg("Max retry attempts exceeded")

	return cfg.MaxAttempts, &ExhaustedError{Attempts: cfg.MaxAttempts, Last: lastErr}
}

// calculateBackoff calculates the backoff duration after the given zero-based attempt
func calculateBackoff(attempt int, cfg Config) time.Duration {
	mult := cfg.Multiplier
	if mult <= 0 {
		mult = 1
	}
	backoff := float64(cfg.InitialBackoff) * math.Pow(mult, float64(attempt))

	if cfg.MaxBackoff > 0 && backoff > float64(cfg.MaxBackoff) {
		backoff = float64(cfg.MaxBackoff)
	}

	return time.Duration(backoff)
}

func shouldRetry(ctx context.Context, err error, cfg Config) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if cfg.Permanent != nil && cfg.Permanent(err) {
		return false
	}
	return true
}

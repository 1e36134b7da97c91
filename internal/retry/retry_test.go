package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = time.Millisecond
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.InitialBackoff)
	for i := 0; i < 5; i++ {
		assert.Equal(t, 2*time.Second, calculateBackoff(i, cfg), "backoff is fixed")
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	cfg := Config{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, Multiplier: 2}
	assert.Equal(t, time.Second, calculateBackoff(0, cfg))
	assert.Equal(t, 2*time.Second, calculateBackoff(1, cfg))
	assert.Equal(t, 3*time.Second, calculateBackoff(2, cfg))
}

func TestWithRetry_SucceedsOnThirdAttempt(t *testing.T) {
	calls := 0
	attempts, err := WithRetry(context.Background(), fastConfig(), func(attempt int) error {
		calls++
		assert.Equal(t, calls, attempt)
		if attempt < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_ExhaustedKeepsLastError(t *testing.T) {
	attempts, err := WithRetry(context.Background(), fastConfig(), func(attempt int) error {
		return errors.New("boom " + string(rune('0'+attempt)))
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)

	var ex *ExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, "boom 3", ex.Last.Error())
}

func TestWithRetry_PermanentStopsImmediately(t *testing.T) {
	stop := errors.New("stop")
	cfg := fastConfig()
	cfg.Permanent = func(err error) bool { return errors.Is(err, stop) }

	calls := 0
	attempts, err := WithRetry(context.Background(), cfg, func(int) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := DefaultConfig()
	cfg.InitialBackoff = time.Hour
	cfg.MaxBackoff = time.Hour

	calls := 0
	attempts, err := WithRetry(ctx, cfg, func(int) error {
		calls++
		cancel()
		return errors.New("first failure")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts, err := WithRetry(ctx, fastConfig(), func(int) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, attempts)
}

package pacing

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/pricewatch/pkg/models"
)

func seeded(mult float64) (*Policy, *[]time.Duration) {
	var slept []time.Duration
	p := New(mult)
	p.rng = rand.New(rand.NewSource(42))
	p.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return p, &slept
}

func TestDelay_WithinWindows(t *testing.T) {
	p, _ := seeded(1)
	for i := 0; i < 200; i++ {
		c := p.Delay(models.StoreColes)
		assert.GreaterOrEqual(t, c, 5*time.Second)
		assert.LessOrEqual(t, c, 10*time.Second)

		w := p.Delay(models.StoreWoolworths)
		assert.GreaterOrEqual(t, w, 2*time.Second)
		assert.LessOrEqual(t, w, 5*time.Second)
	}
}

func TestDelay_Multiplier(t *testing.T) {
	p, _ := seeded(0)
	assert.Zero(t, p.Delay(models.StoreColes))

	half, _ := seeded(0.5)
	d := half.Delay(models.StoreColes)
	assert.GreaterOrEqual(t, d, 2500*time.Millisecond)
	assert.LessOrEqual(t, d, 5*time.Second)
}

func TestAfter_UsesNextTargetStore(t *testing.T) {
	p, slept := seeded(1)
	targets := []models.Target{
		{URL: "a", Store: models.StoreWoolworths},
		{URL: "b", Store: models.StoreColes},
		{URL: "c", Store: models.StoreWoolworths},
	}

	require.NoError(t, p.After(context.Background(), 0, targets))
	require.NoError(t, p.After(context.Background(), 1, targets))
	require.NoError(t, p.After(context.Background(), 2, targets))

	require.Len(t, *slept, 2, "no delay after the last target")
	assert.GreaterOrEqual(t, (*slept)[0], 5*time.Second, "coles window before the coles target")
	assert.LessOrEqual(t, (*slept)[1], 5*time.Second, "woolworths window before the woolworths target")
}

func TestAfter_Cancelled(t *testing.T) {
	p := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	targets := []models.Target{{Store: models.StoreColes}, {Store: models.StoreColes}}
	start := time.Now()
	err := p.After(ctx, 0, targets)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestBetween_Bounds(t *testing.T) {
	p, slept := seeded(1)
	for i := 0; i < 50; i++ {
		require.NoError(t, p.Between(context.Background(), 3*time.Second, time.Second))
	}
	for _, d := range *slept {
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 3*time.Second)
	}
}

// Package pacing spaces out page loads so a batch looks like a person browsing.
package pacing

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/pricewatch/pkg/models"
)

// Window is a uniform random delay range
type Window struct {
	Min time.Duration
	Max time.Duration
}

// Default windows per store. Coles is challenge-prone and gets the slower pace.
var (
	WoolworthsWindow = Window{Min: 2 * time.Second, Max: 5 * time.Second}
	ColesWindow      = Window{Min: 5 * time.Second, Max: 10 * time.Second}
)

// Policy picks the delay to wait before the next target
type Policy struct {
	// Multiplier scales every delay. 0 disables pacing.
	Multiplier float64

	mu    sync.Mutex
	rng   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a pacing policy
func New(multiplier float64) *Policy {
	if multiplier < 0 {
		multiplier = 0
	}
	return &Policy{
		Multiplier: multiplier,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:      sleepCtx,
	}
}

// WindowFor returns the delay window used before loading a page of the given store
func WindowFor(next models.Store) Window {
	if next == models.StoreColes {
		return ColesWindow
	}
	return WoolworthsWindow
}

// Delay draws a delay for the next target's store
func (p *Policy) Delay(next models.Store) time.Duration {
	if p == nil || p.Multiplier == 0 {
		return 0
	}
	w := WindowFor(next)

	p.mu.Lock()
	frac := p.rng.Float64()
	p.mu.Unlock()

	d := w.Min + time.Duration(frac*float64(w.Max-w.Min))
	return time.Duration(float64(d) * p.Multiplier)
}

// After waits between targets[i] and targets[i+1]. It returns immediately after the
// last target and returns ctx.Err() if cancelled while waiting.
func (p *Policy) After(ctx context.Context, i int, targets []models.Target) error {
	if i < 0 || i+1 >= len(targets) {
		return nil
	}
	d := p.Delay(targets[i+1].Store)
	if d <= 0 {
		return ctx.Err()
	}

	log.Debug().
		Str("next_store", string(targets[i+1].Store)).
		Dur("delay", d).
		Msg("Pacing before next product")

	return p.sleep(ctx, d)
}

// Between waits a uniform random duration in [min, max], used for warmup pauses
func (p *Policy) Between(ctx context.Context, min, max time.Duration) error {
	if max < min {
		min, max = max, min
	}
	p.mu.Lock()
	frac := p.rng.Float64()
	p.mu.Unlock()
	return p.sleep(ctx, min+time.Duration(frac*float64(max-min)))
}

// Intn returns a random int in [0, n)
func (p *Policy) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

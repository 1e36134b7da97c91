package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/law-makers/pricewatch/pkg/models"
)

// Page is one browser tab. Every operation is bounded by its own timeout and by ctx.
// Implementations return an error wrapping ErrSessionLost once the tab is gone.
type Page interface {
	// Navigate loads url and returns once the DOM is parsed, without waiting for
	// the network to go idle
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// WaitVisible blocks until selector matches a visible element
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// Text returns the rendered text of the first element matching selector
	Text(ctx context.Context, selector string, timeout time.Duration) (string, error)

	// Present reports whether selector matches anything within timeout
	Present(ctx context.Context, selector string, timeout time.Duration) bool

	// HTML returns the current document's markup
	HTML(ctx context.Context) (string, error)

	// Scroll scrolls the window vertically by dy pixels
	Scroll(ctx context.Context, dy int) error
}

// Strategy extracts a product from a page of one store
type Strategy interface {
	Store() models.Store
	Extract(ctx context.Context, page Page, url string) (*models.Product, error)
}

// Dumper receives the page markup after a failed attempt when debugging is enabled
type Dumper interface {
	Dump(store models.Store, url, html string) (string, error)
}

// Registry maps each known store to its extraction strategy
type Registry struct {
	strategies map[models.Store]Strategy
}

// NewRegistry builds a registry from the given strategies
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: make(map[models.Store]Strategy, len(strategies))}
	for _, s := range strategies {
		r.strategies[s.Store()] = s
	}
	return r
}

// DefaultRegistry returns the strategies for every supported store
func DefaultRegistry() *Registry {
	return NewRegistry(NewWoolworths(), NewColes())
}

// For returns the strategy for store
func (r *Registry) For(store models.Store) (Strategy, error) {
	s, ok := r.strategies[store]
	if !ok {
		return nil, NewEngineError(ErrCodeUnknownStore, fmt.Sprintf("no strategy for %q", store), ErrUnknownStore)
	}
	return s, nil
}

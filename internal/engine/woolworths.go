package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/pricewatch/internal/utils/price"
	"github.com/law-makers/pricewatch/pkg/models"
)

// Woolworths product page selectors. All fields are scoped to the product panel.
const (
	WoolworthsPanel = `section[class*="product-details-panel_component_product-panel"]`
	wwName          = WoolworthsPanel + ` h1[class*="product-title_component_product-title"]`
	wwPrice         = WoolworthsPanel + ` div[class*="product-price_component_price-lead"]`
	wwWasPrice      = WoolworthsPanel + ` div[class*="product-unit-price_component_price-was"]`
	wwCupPrice      = WoolworthsPanel + ` div[class*="product-unit-price_component_price-cup-string"]`
	wwBadge         = WoolworthsPanel + ` div[class*="product-stamp_message"]`
)

// Timeouts bounds every wait of one extraction attempt
type Timeouts struct {
	PageLoad       time.Duration
	Ready          time.Duration
	Name           time.Duration
	Price          time.Duration
	WasPrice       time.Duration
	UnitPrice      time.Duration
	Badge          time.Duration
	ChallengeProbe time.Duration
	ChallengeWait  time.Duration
}

// WoolworthsTimeouts are the waits used on woolworths.com.au
func WoolworthsTimeouts() Timeouts {
	return Timeouts{
		PageLoad:  30 * time.Second,
		Ready:     20 * time.Second,
		Name:      10 * time.Second,
		Price:     5 * time.Second,
		WasPrice:  2 * time.Second,
		UnitPrice: 5 * time.Second,
		Badge:     1 * time.Second,
	}
}

// Woolworths extracts products from woolworths.com.au product detail pages
type Woolworths struct {
	Timeouts Timeouts
}

// NewWoolworths creates the Woolworths strategy with its default timeouts
func NewWoolworths() *Woolworths {
	return &Woolworths{Timeouts: WoolworthsTimeouts()}
}

// Store returns models.StoreWoolworths
func (w *Woolworths) Store() models.Store {
	return models.StoreWoolworths
}

// Extract loads url and reads the product panel
func (w *Woolworths) Extract(ctx context.Context, page Page, url string) (*models.Product, error) {
	t := w.Timeouts

	if err := page.Navigate(ctx, url, t.PageLoad); err != nil {
		return nil, err
	}
	if err := page.WaitVisible(ctx, WoolworthsPanel, t.Ready); err != nil {
		return nil, readyError(err, WoolworthsPanel)
	}

	name, err := ExtractRequired(ctx, page, FieldSpec{Name: "name", Selector: wwName, Timeout: t.Name})
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Store: models.StoreWoolworths,
		Name:  name,
		URL:   url,
		Price: ExtractValue(ctx, page, FieldSpec{
			Name:     "price",
			Selector: wwPrice,
			Timeout:  t.Price,
			Fallback: models.NotFound,
			Parse:    stripCurrency,
		}),
		WasPrice: ExtractValue(ctx, page, FieldSpec{
			Name:     "was_price",
			Selector: wwWasPrice,
			Timeout:  t.WasPrice,
			Fallback: models.NotApplicable,
			Parse:    price.FirstNumber,
		}),
		UnitPrice: ExtractValue(ctx, page, FieldSpec{
			Name:     "unit_price",
			Selector: wwCupPrice,
			Timeout:  t.UnitPrice,
			Fallback: models.NotFound,
		}),
		PromoBadge: ExtractValue(ctx, page, FieldSpec{
			Name:     "promo_badge",
			Selector: wwBadge,
			Timeout:  t.Badge,
			Fallback: models.NoBadge,
		}),
	}

	log.Debug().
		Str("store", string(p.Store)).
		Str("name", p.Name).
		Str("price", p.Price).
		Str("was", p.WasPrice).
		Msg("Product extracted")

	return p, nil
}

func stripCurrency(raw string) (string, bool) {
	v := price.StripCurrency(raw)
	return v, v != ""
}

// readyError converts a failed ready-selector wait into a retryable failure
func readyError(err error, selector string) error {
	if IsFatal(err) {
		return err
	}
	return NewEngineError(ErrCodeTimeout, "page not ready", err).
		WithRetry().
		WithDetail("selector", selector)
}

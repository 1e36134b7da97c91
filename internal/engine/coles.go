package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/pricewatch/internal/utils/price"
	"github.com/law-makers/pricewatch/pkg/models"
)

// Coles product page selectors
const (
	ColesTitle     = `h1.product__title`
	colesPrice     = `span.price__value`
	colesWasPrice  = `span.price__was`
	colesUnitPrice = `div.price__calculation_method`
	ColesChallenge = `#main-iframe, iframe[src*="_Incapsula_Resource"]`
	badgeSpecial   = "Special"
	badgeHalfPrice = "1/2 Price"
)

// ColesTimeouts are the waits used on coles.com.au
func ColesTimeouts() Timeouts {
	return Timeouts{
		PageLoad:       60 * time.Second,
		Ready:          20 * time.Second,
		Name:           10 * time.Second,
		Price:          5 * time.Second,
		WasPrice:       2 * time.Second,
		UnitPrice:      5 * time.Second,
		ChallengeProbe: 3 * time.Second,
		ChallengeWait:  120 * time.Second,
	}
}

// Coles extracts products from coles.com.au. The site fronts product pages with a
// bot challenge and exposes no promotion badge, so the badge is derived from prices.
type Coles struct {
	Timeouts Timeouts
}

// NewColes creates the Coles strategy with its default timeouts
func NewColes() *Coles {
	return &Coles{Timeouts: ColesTimeouts()}
}

// Store returns models.StoreColes
func (c *Coles) Store() models.Store {
	return models.StoreColes
}

// Extract loads url, waits out any challenge and reads the product
func (c *Coles) Extract(ctx context.Context, page Page, url string) (*models.Product, error) {
	t := c.Timeouts

	if err := page.Navigate(ctx, url, t.PageLoad); err != nil {
		return nil, err
	}
	if err := awaitReady(ctx, page, url, ColesTitle, t); err != nil {
		return nil, err
	}

	name, err := ExtractRequired(ctx, page, FieldSpec{Name: "name", Selector: ColesTitle, Timeout: t.Name})
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Store: models.StoreColes,
		Name:  name,
		URL:   url,
		Price: ExtractValue(ctx, page, FieldSpec{
			Name:     "price",
			Selector: colesPrice,
			Timeout:  t.Price,
			Fallback: models.NotFound,
			Parse:    price.FirstNumber,
		}),
		WasPrice: ExtractValue(ctx, page, FieldSpec{
			Name:     "was_price",
			Selector: colesWasPrice,
			Timeout:  t.WasPrice,
			Fallback: models.NotApplicable,
			Parse:    price.FirstNumber,
		}),
		UnitPrice: ExtractValue(ctx, page, FieldSpec{
			Name:     "unit_price",
			Selector: colesUnitPrice,
			Timeout:  t.UnitPrice,
			Fallback: models.NotFound,
		}),
	}
	p.PromoBadge = SyntheticBadge(p.Price, p.WasPrice)

	log.Debug().
		Str("store", string(p.Store)).
		Str("name", p.Name).
		Str("price", p.Price).
		Str("was", p.WasPrice).
		Str("badge", p.PromoBadge).
		Msg("Product extracted")

	return p, nil
}

// SyntheticBadge derives a promotion badge from the current and prior price.
// Half price requires prior/2 to equal current exactly.
func SyntheticBadge(current, prior string) string {
	if prior == models.NotApplicable || prior == "" || prior == current {
		return models.NoBadge
	}
	was, err := price.Parse(prior)
	if err != nil {
		return models.NoBadge
	}
	cur, err := price.Parse(current)
	if err != nil {
		return badgeSpecial
	}
	if was == cur {
		return models.NoBadge
	}
	if was/2 == cur {
		return badgeHalfPrice
	}
	return badgeSpecial
}

package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/pricewatch/internal/engine"
	"github.com/law-makers/pricewatch/internal/engine/static"
	"github.com/law-makers/pricewatch/pkg/models"
)

const wwURL = "https://www.woolworths.com.au/shop/productdetails/12345/tim-tam-original"

const wwFull = `<html><body>
<section class="product-details-panel_component_product-panel__abc">
  <h1 class="product-title_component_product-title__x1">Arnott's Tim Tam Original 200g</h1>
  <div class="product-price_component_price-lead__q">$2.75</div>
  <div class="product-unit-price_component_price-was__z">Was $5.50</div>
  <div class="product-unit-price_component_price-cup-string__y">$1.38 / 100G</div>
  <div class="product-stamp_message__m">1/2 Price</div>
</section>
</body></html>`

const wwBare = `<html><body>
<section class="product-details-panel_component_product-panel__abc">
  <h1 class="product-title_component_product-title__x1">Bananas</h1>
</section>
<div class="product-price_component_price-lead__q">$9.99</div>
</body></html>`

const colesURL = "https://www.coles.com.au/product/coles-full-cream-milk-2l-123"

const colesSpecial = `<html><body>
<h1 class="product__title">Coles Full Cream Milk 2L</h1>
<span class="price__value">$3.10</span>
<span class="price__was">Was $4.00</span>
<div class="price__calculation_method">$1.55 per 1L</div>
</body></html>`

const colesChallengeSolved = `<html><body>
<iframe id="main-iframe" src="/_Incapsula_Resource?x=1"></iframe>
<h1 class="product__title">Coles Bread</h1>
<span class="price__value">$2.00</span>
<span class="price__was">Was $4.00</span>
</body></html>`

const colesChallengeStuck = `<html><body>
<iframe id="main-iframe" src="/_Incapsula_Resource?x=1"></iframe>
</body></html>`

func TestWoolworths_FullProduct(t *testing.T) {
	page := static.New().Load(wwURL, wwFull)

	p, err := engine.NewWoolworths().Extract(context.Background(), page, wwURL)
	require.NoError(t, err)

	assert.Equal(t, &models.Product{
		Store:      models.StoreWoolworths,
		Name:       "Arnott's Tim Tam Original 200g",
		Price:      "2.75",
		WasPrice:   "5.50",
		UnitPrice:  "$1.38 / 100G",
		PromoBadge: "1/2 Price",
		URL:        wwURL,
	}, p)
}

func TestWoolworths_OptionalFieldsFallBackToSentinels(t *testing.T) {
	page := static.New().Load(wwURL, wwBare)

	p, err := engine.NewWoolworths().Extract(context.Background(), page, wwURL)
	require.NoError(t, err)

	assert.Equal(t, "Bananas", p.Name)
	assert.Equal(t, models.NotFound, p.Price, "price outside the panel is ignored")
	assert.Equal(t, models.NotApplicable, p.WasPrice)
	assert.Equal(t, models.NotFound, p.UnitPrice)
	assert.Equal(t, models.NoBadge, p.PromoBadge)
}

func TestWoolworths_PanelMissingIsRetryableTimeout(t *testing.T) {
	page := static.New().Load(wwURL, `<html><body><p>Access denied</p></body></html>`)

	_, err := engine.NewWoolworths().Extract(context.Background(), page, wwURL)
	require.Error(t, err)
	assert.Equal(t, engine.ErrCodeTimeout, engine.CodeOf(err))
	assert.False(t, engine.IsFatal(err))
}

func TestWoolworths_NameMissingFailsAttempt(t *testing.T) {
	page := static.New().Load(wwURL, `<html><body>
<section class="product-details-panel_component_product-panel__abc">
  <div class="product-price_component_price-lead__q">$2.75</div>
</section></body></html>`)

	_, err := engine.NewWoolworths().Extract(context.Background(), page, wwURL)
	require.Error(t, err)
	assert.Equal(t, engine.ErrCodeNotFound, engine.CodeOf(err))
	assert.True(t, errors.Is(err, engine.ErrFieldNotFound))
}

func TestColes_FastPath(t *testing.T) {
	page := static.New().Load(colesURL, colesSpecial)

	p, err := engine.NewColes().Extract(context.Background(), page, colesURL)
	require.NoError(t, err)

	assert.Equal(t, &models.Product{
		Store:      models.StoreColes,
		Name:       "Coles Full Cream Milk 2L",
		Price:      "3.10",
		WasPrice:   "4.00",
		UnitPrice:  "$1.55 per 1L",
		PromoBadge: "Special",
		URL:        colesURL,
	}, p)
}

func TestColes_ChallengeThenReady(t *testing.T) {
	page := static.New().Load(colesURL, colesChallengeSolved)

	p, err := engine.NewColes().Extract(context.Background(), page, colesURL)
	require.NoError(t, err)
	assert.Equal(t, "Coles Bread", p.Name)
	assert.Equal(t, "1/2 Price", p.PromoBadge)
	assert.Equal(t, models.NotFound, p.UnitPrice)
}

func TestColes_ChallengeNotSolved(t *testing.T) {
	page := static.New().Load(colesURL, colesChallengeStuck)

	_, err := engine.NewColes().Extract(context.Background(), page, colesURL)
	require.Error(t, err)
	assert.Equal(t, engine.ErrCodeChallenge, engine.CodeOf(err))
}

func TestColes_NoChallengeNotReady(t *testing.T) {
	page := static.New().Load(colesURL, `<html><body></body></html>`)

	_, err := engine.NewColes().Extract(context.Background(), page, colesURL)
	require.Error(t, err)
	assert.Equal(t, engine.ErrCodeTimeout, engine.CodeOf(err))
}

func TestSyntheticBadge(t *testing.T) {
	tests := []struct {
		current, prior, want string
	}{
		{"5.00", "10.00", "1/2 Price"},
		{"3.10", "4.00", "Special"},
		{"3.33", "6.67", "Special"}, // not an exact half
		{"4.00", models.NotApplicable, models.NoBadge},
		{"4.00", "4.00", models.NoBadge},
		{"4.0", "4.00", models.NoBadge},
		{models.NotFound, "4.00", "Special"},
	}
	for _, tc := range tests {
		t.Run(tc.current+"_"+tc.prior, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.SyntheticBadge(tc.current, tc.prior))
		})
	}
}

func TestRegistry(t *testing.T) {
	r := engine.DefaultRegistry()

	s, err := r.For(models.StoreWoolworths)
	require.NoError(t, err)
	assert.Equal(t, models.StoreWoolworths, s.Store())

	s, err = r.For(models.StoreColes)
	require.NoError(t, err)
	assert.Equal(t, models.StoreColes, s.Store())

	_, err = r.For(models.StoreUnknown)
	assert.ErrorIs(t, err, engine.ErrUnknownStore)
	assert.Equal(t, engine.ErrCodeUnknownStore, engine.CodeOf(err))
}

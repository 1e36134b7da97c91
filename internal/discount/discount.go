// Package discount turns scraped prices and promotion badges into a normalized label.
package discount

import (
	"fmt"
	"strings"

	"github.com/law-makers/pricewatch/internal/utils/price"
	"github.com/law-makers/pricewatch/pkg/models"
)

// Labels shown to users
const (
	LabelHalfPrice = "HALF PRICE!"
	LabelSpecial   = "SPECIAL"
)

// Badge markers recognised in promotion text
const (
	BadgeHalfPrice = "1/2 Price"
	BadgeSpecial   = "Special"
)

// Classify derives the discount of a product from its current price, prior price and badge.
// Numeric comparison takes precedence; the badge alone is used only when no numeric
// discount can be derived.
func Classify(current, prior, badge string) models.Discount {
	if d, ok := numeric(current, prior, badge); ok {
		return d
	}
	return fromBadge(badge)
}

// ClassifyProduct is Classify applied to a scraped product
func ClassifyProduct(p *models.Product) models.Discount {
	if p == nil {
		return models.Discount{}
	}
	return Classify(p.Price, p.WasPrice, p.PromoBadge)
}

// OnSpecial reports whether the product carries a usable prior price
func OnSpecial(p *models.Product) bool {
	return p != nil && !isSentinel(p.WasPrice)
}

func numeric(current, prior, badge string) (models.Discount, bool) {
	if isSentinel(prior) {
		return models.Discount{}, false
	}
	cur, err := price.Parse(current)
	if err != nil {
		return models.Discount{}, false
	}
	was, err := price.Parse(prior)
	if err != nil {
		return models.Discount{}, false
	}
	if was <= cur {
		return models.Discount{}, false
	}

	amount := was - cur
	pct := amount / was * 100

	var label string
	switch {
	case strings.Contains(badge, BadgeHalfPrice) || (pct >= 48 && pct <= 52):
		label = LabelHalfPrice
	case strings.Contains(badge, BadgeSpecial):
		label = fmt.Sprintf("%.0f%% OFF", pct)
	case pct >= 30:
		label = fmt.Sprintf("%.0f%% OFF!", pct)
	case pct >= 20:
		label = fmt.Sprintf("%.0f%% OFF", pct)
	default:
		// was > cur, so pct > 0 here
		label = fmt.Sprintf("Save $%.2f", amount)
	}
	return models.Discount{Percent: &pct, Label: label}, true
}

func fromBadge(badge string) models.Discount {
	switch {
	case strings.Contains(badge, BadgeHalfPrice):
		half := 50.0
		return models.Discount{Percent: &half, Label: LabelHalfPrice}
	case strings.Contains(badge, BadgeSpecial):
		return models.Discount{Label: LabelSpecial}
	default:
		return models.Discount{}
	}
}

func isSentinel(prior string) bool {
	switch strings.TrimSpace(prior) {
	case models.NotApplicable, "-", "":
		return true
	}
	return false
}

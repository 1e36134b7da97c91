package discount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/pricewatch/pkg/models"
)

func TestClassify(t *testing.T) {
	pct := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		current string
		prior   string
		badge   string
		percent *float64
		label   string
	}{
		{"exact half", "5.00", "10.00", "", pct(50), LabelHalfPrice},
		{"special badge uses plain percent", "7.50", "10.00", "Special", pct(25), "25% OFF"},
		{"small saving", "9.00", "10.00", "", pct(10), "Save $1.00"},
		{"badge only half price", "5.00", "Not applicable", "1/2 Price", pct(50), LabelHalfPrice},
		{"dash prior no badge", "5.00", "-", "", nil, ""},
		{"half price band low edge", "5.20", "10.00", "", pct(48), LabelHalfPrice},
		{"half price band high edge", "4.80", "10.00", "", pct(52), LabelHalfPrice},
		{"half price badge beats percent", "9.00", "10.00", "1/2 Price", pct(10), LabelHalfPrice},
		{"big discount", "6.00", "10.00", "", pct(40), "40% OFF!"},
		{"twenty percent", "8.00", "10.00", "", pct(20), "20% OFF"},
		{"thirty percent", "7.00", "10.00", "", pct(30), "30% OFF!"},
		{"currency symbols", "$6.00", "Was $10.00", "", pct(40), "40% OFF!"},
		{"prior not higher falls back to badge", "10.00", "10.00", "Special", nil, LabelSpecial},
		{"prior lower, no badge", "10.00", "8.00", "", nil, ""},
		{"unparseable current falls back to badge", "Not found", "10.00", "Special", nil, LabelSpecial},
		{"unparseable prior", "5.00", "1.2.3", "", nil, ""},
		{"empty prior special badge", "5.00", "", "Special", nil, LabelSpecial},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.current, tc.prior, tc.badge)
			assert.Equal(t, tc.label, got.Label)
			if tc.percent == nil {
				assert.Nil(t, got.Percent)
				return
			}
			require.NotNil(t, got.Percent)
			assert.InDelta(t, *tc.percent, *got.Percent, 1e-9)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	a := Classify("7.50", "10.00", "Special")
	b := Classify("7.50", "10.00", "Special")
	require.NotNil(t, a.Percent)
	require.NotNil(t, b.Percent)
	assert.Equal(t, a.Label, b.Label)
	assert.Equal(t, *a.Percent, *b.Percent)
}

func TestClassifyProduct(t *testing.T) {
	assert.Equal(t, models.Discount{}, ClassifyProduct(nil))

	p := &models.Product{Price: "3.00", WasPrice: "6.00", PromoBadge: models.NoBadge}
	assert.Equal(t, LabelHalfPrice, ClassifyProduct(p).Label)
	assert.True(t, OnSpecial(p))

	p.WasPrice = models.NotApplicable
	assert.False(t, OnSpecial(p))
}

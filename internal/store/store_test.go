package store

import (
	"testing"

	"github.com/law-makers/pricewatch/pkg/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		url  string
		want models.Store
	}{
		{"https://www.woolworths.com.au/shop/productdetails/160209/restor-concentrated-laundry-detergent-sheets-fresh-linen", models.StoreWoolworths},
		{"https://WWW.WOOLWORTHS.COM.AU/shop/productdetails/1/x", models.StoreWoolworths},
		{"https://www.coles.com.au/product/earth-rescue-dishwasher-sheets-5551234", models.StoreColes},
		{"https://www.woolworths.com.au/shop/browse/cleaning", models.StoreUnknown},
		{"https://www.coles.com.au/browse/household", models.StoreUnknown},
		{"https://www.aldi.com.au/product/123", models.StoreUnknown},
		{"ftp://www.coles.com.au/product/x", models.StoreUnknown},
		{"", models.StoreUnknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.url); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.url, got, tc.want)
		}
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A URL carrying both fragments resolves to the first store in priority order.
	u := "https://www.woolworths.com.au/shop/productdetails/1/x?ref=coles.com.au/product/y"
	if got := Classify(u); got != models.StoreWoolworths {
		t.Fatalf("expected woolworths, got %s", got)
	}
}

func TestTargets_FiltersAndKeepsOrder(t *testing.T) {
	urls := []string{
		"https://www.coles.com.au/product/a-1",
		"https://example.com/nope",
		"  ",
		"https://www.woolworths.com.au/shop/productdetails/2/b",
		"https://www.coles.com.au/product/c-3",
	}

	kept, rejected := Targets(urls, All())
	if len(kept) != 3 {
		t.Fatalf("expected 3 kept targets, got %d", len(kept))
	}
	if kept[0].Store != models.StoreColes || kept[1].Store != models.StoreWoolworths || kept[2].URL != urls[4] {
		t.Errorf("unexpected order: %+v", kept)
	}
	if len(rejected) != 1 || rejected[0].Store != models.StoreUnknown {
		t.Errorf("unexpected rejected set: %+v", rejected)
	}

	kept, rejected = Targets(urls, map[models.Store]bool{models.StoreWoolworths: true})
	if len(kept) != 1 || kept[0].Store != models.StoreWoolworths {
		t.Errorf("expected only woolworths, got %+v", kept)
	}
	if len(rejected) != 3 {
		t.Errorf("expected disabled coles targets to be rejected, got %+v", rejected)
	}

	kept, _ = Targets(urls, map[models.Store]bool{})
	if len(kept) != 0 {
		t.Errorf("expected no targets with every store disabled, got %+v", kept)
	}
}

func TestStoreProfiles(t *testing.T) {
	if !ChallengeProne(models.StoreColes) || ChallengeProne(models.StoreWoolworths) {
		t.Error("only coles should be challenge prone")
	}
	if Homepage(models.StoreUnknown) != "" {
		t.Error("unknown store has no homepage")
	}
	origins := Origins()
	if len(origins) != 2 || origins[0] != "https://www.woolworths.com.au" || origins[1] != "https://www.coles.com.au" {
		t.Errorf("unexpected origins: %v", origins)
	}
	if Parse("Coles") != models.StoreColes || Parse("ww") != models.StoreWoolworths || Parse("aldi") != models.StoreUnknown {
		t.Error("unexpected Parse results")
	}
}

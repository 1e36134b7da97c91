package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://www.coles.com.au/product/some-item-123",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"https://www.woolworths.com.au/shop/productdetails/160209/restor-sheets-fresh-linen": "restor-sheets-fresh-linen",
		"https://www.coles.com.au/product/dish-tabs-5551234/":                                "dish-tabs-5551234",
		"https://www.coles.com.au": "www.coles.com.au",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOrigin(t *testing.T) {
	if got := Origin("https://www.coles.com.au/product/x"); got != "https://www.coles.com.au" {
		t.Errorf("Origin = %q", got)
	}
	if got := Origin("not a url"); got != "" {
		t.Errorf("Origin of garbage = %q", got)
	}
}

// Package store maps product URLs to the retailer that serves them.
package store

import (
	"strings"

	urlutil "github.com/law-makers/pricewatch/internal/utils/url"
	"github.com/law-makers/pricewatch/pkg/models"
)

// profile describes what the engine needs to know about a store's site
type profile struct {
	store          models.Store
	pathFragment   string
	homepage       string
	challengeProne bool
}

// profiles are checked in order; the first matching path fragment wins
var profiles = []profile{
	{
		store:        models.StoreWoolworths,
		pathFragment: "woolworths.com.au/shop/productdetails/",
		homepage:     "https://www.woolworths.com.au/",
	},
	{
		store:          models.StoreColes,
		pathFragment:   "coles.com.au/product/",
		homepage:       "https://www.coles.com.au/",
		challengeProne: true,
	},
}

// Classify returns the store whose canonical product path appears in rawURL,
// or StoreUnknown when none does or the URL is not a usable http(s) URL.
func Classify(rawURL string) models.Store {
	rawURL = strings.TrimSpace(rawURL)
	if urlutil.ValidateURL(rawURL) != nil {
		return models.StoreUnknown
	}
	lower := strings.ToLower(rawURL)
	for _, p := range profiles {
		if strings.Contains(lower, p.pathFragment) {
			return p.store
		}
	}
	return models.StoreUnknown
}

// Targets classifies urls and keeps, in input order, those whose store is enabled.
// Everything else is returned as rejected so callers can report it.
func Targets(urls []string, enabled map[models.Store]bool) (kept []models.Target, rejected []models.Target) {
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		t := models.Target{URL: u, Store: Classify(u)}
		if t.Store == models.StoreUnknown || !enabled[t.Store] {
			rejected = append(rejected, t)
			continue
		}
		kept = append(kept, t)
	}
	return kept, rejected
}

// ChallengeProne reports whether the store is known to challenge automated traffic
func ChallengeProne(s models.Store) bool {
	for _, p := range profiles {
		if p.store == s {
			return p.challengeProne
		}
	}
	return false
}

// Homepage returns the store's homepage, or "" for unknown stores
func Homepage(s models.Store) string {
	for _, p := range profiles {
		if p.store == s {
			return p.homepage
		}
	}
	return ""
}

// Origins returns the origin of every known store, in priority order
func Origins() []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, urlutil.Origin(p.homepage))
	}
	return out
}

// Parse maps a store name as typed by a user ("woolworths", "Coles", "ww") to a Store
func Parse(name string) models.Store {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "woolworths", "woolies", "ww":
		return models.StoreWoolworths
	case "coles":
		return models.StoreColes
	default:
		return models.StoreUnknown
	}
}

// All returns an enabled-set containing every known store
func All() map[models.Store]bool {
	m := make(map[models.Store]bool, len(profiles))
	for _, p := range profiles {
		m[p.store] = true
	}
	return m
}

package models

import "time"

// Store identifies a retailer whose product pages share one extraction strategy
type Store string

const (
	StoreWoolworths Store = "woolworths"
	StoreColes      Store = "coles"
	StoreUnknown    Store = "unknown"
)

// KnownStores lists the supported stores in classification priority order
var KnownStores = []Store{StoreWoolworths, StoreColes}

// String returns the display name of the store
func (s Store) String() string {
	switch s {
	case StoreWoolworths:
		return "Woolworths"
	case StoreColes:
		return "Coles"
	default:
		return "Unknown"
	}
}

// Sentinel values stored in a Product when an optional field could not be extracted.
// The sentinel itself is the signal of absence to downstream consumers.
const (
	NotFound      = "Not found"
	NotApplicable = "Not applicable"
	NoBadge       = ""
)

// Target is one product URL tagged with the store that serves it
type Target struct {
	URL   string `json:"url"`
	Store Store  `json:"store"`
}

// FieldResult is the outcome of extracting a single named field.
// A missing field is an expected outcome, not an error.
type FieldResult struct {
	Value   string `json:"value,omitempty"`
	Present bool   `json:"present"`
	Reason  string `json:"reason,omitempty"`
}

// Found builds a present FieldResult
func Found(value string) FieldResult {
	return FieldResult{Value: value, Present: true}
}

// Absent builds a FieldResult describing why a field is missing
func Absent(reason string) FieldResult {
	return FieldResult{Reason: reason}
}

// ValueOr returns the extracted value, or fallback when the field is absent
func (f FieldResult) ValueOr(fallback string) string {
	if !f.Present {
		return fallback
	}
	return f.Value
}

// Product is the successful extraction of one product page
type Product struct {
	Store      Store  `json:"store"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	WasPrice   string `json:"was_price"`
	UnitPrice  string `json:"unit_price"`
	PromoBadge string `json:"promo_badge"`
	URL        string `json:"url"`
}

// ScrapeRecord is the outcome of one target: either a Product or an error message.
// Exactly one of Product and Error is set.
type ScrapeRecord struct {
	URL      string   `json:"url"`
	Store    Store    `json:"store"`
	Product  *Product `json:"product,omitempty"`
	Error    string   `json:"error,omitempty"`
	Attempts int      `json:"attempts"`
}

// OK reports whether the record holds a successfully extracted product
func (r ScrapeRecord) OK() bool {
	return r.Product != nil
}

// Success builds a successful record
func Success(target Target, p *Product, attempts int) ScrapeRecord {
	return ScrapeRecord{URL: target.URL, Store: target.Store, Product: p, Attempts: attempts}
}

// Failure builds a failed record carrying the last error message
func Failure(target Target, msg string, attempts int) ScrapeRecord {
	return ScrapeRecord{URL: target.URL, Store: target.Store, Error: msg, Attempts: attempts}
}

// Discount is the normalized promotion classification of a product's prices.
// It is derived on demand and never stored on a ScrapeRecord.
type Discount struct {
	Percent *float64 `json:"percent,omitempty"`
	Label   string   `json:"label"`
}

// Progress is emitted after each target completes
type Progress struct {
	Completed int
	Total     int
	Record    ScrapeRecord
}

// RunSummary aggregates the outcome of a batch
type RunSummary struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	OnSpecial  int           `json:"on_special"`
	Duration   time.Duration `json:"duration"`
}

package output

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/law-makers/pricewatch/internal/discount"
	"github.com/law-makers/pricewatch/internal/ui"
	"github.com/law-makers/pricewatch/pkg/models"
)

// PriceDisplay formats a current price, "N/A" when missing
func PriceDisplay(p string) string {
	if p == models.NotFound || p == "" {
		return "N/A"
	}
	return "$" + p
}

// WasDisplay formats a prior price, "-" when not on special
func WasDisplay(p string) string {
	if p == models.NotApplicable || p == "" {
		return "-"
	}
	return "$" + p
}

// RenderTable prints successful records as a table. With color set, promotions are highlighted.
func RenderTable(w io.Writer, records []models.ScrapeRecord, color bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Store", "Product", "Price", "Was", "Unit Price", "Promotion"})

	for _, rec := range records {
		if !rec.OK() {
			continue
		}
		p := rec.Product
		label := discount.ClassifyProduct(p).Label
		if color {
			label = ui.Promotion(label)
		}
		t.AppendRow(table.Row{p.Store.String(), p.Name, PriceDisplay(p.Price), WasDisplay(p.WasPrice), p.UnitPrice, label})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderFailures prints failed records with their last error
func RenderFailures(w io.Writer, records []models.ScrapeRecord) {
	var failed []models.ScrapeRecord
	for _, rec := range records {
		if !rec.OK() {
			failed = append(failed, rec)
		}
	}
	if len(failed) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"URL", "Attempts", "Error"})
	for _, rec := range failed {
		t.AppendRow(table.Row{rec.URL, rec.Attempts, rec.Error})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// FormatSummary renders the one-line run summary
func FormatSummary(s models.RunSummary) string {
	return fmt.Sprintf("Scraped: %d/%d products | %d on special (%s)",
		s.Successful, s.Total, s.OnSpecial, s.Duration.Round(time.Second))
}

// DefaultFilename returns pricewatch_products_<timestamp>.<ext>
func DefaultFilename(ext string, now time.Time) string {
	return fmt.Sprintf("pricewatch_products_%s.%s", now.Format("20060102_150405"), ext)
}

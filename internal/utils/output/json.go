package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/law-makers/pricewatch/internal/discount"
	"github.com/law-makers/pricewatch/pkg/models"
)

// ExportRecord is a scrape record with its derived promotion
type ExportRecord struct {
	models.ScrapeRecord
	Discount *models.Discount `json:"discount,omitempty"`
}

// Export is the JSON document written by --output *.json
type Export struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Summary     models.RunSummary `json:"summary"`
	Records     []ExportRecord    `json:"records"`
}

// NewExport attaches classifications to records
func NewExport(records []models.ScrapeRecord, summary models.RunSummary, now time.Time) Export {
	out := Export{GeneratedAt: now, Summary: summary, Records: make([]ExportRecord, 0, len(records))}
	for _, rec := range records {
		er := ExportRecord{ScrapeRecord: rec}
		if rec.OK() {
			d := discount.ClassifyProduct(rec.Product)
			er.Discount = &d
		}
		out.Records = append(out.Records, er)
	}
	return out
}

// WriteJSON writes the export as indented JSON
func WriteJSON(w io.Writer, export Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}

// SaveJSON writes the JSON export to filepath
func SaveJSON(export Export, filepath string) error {
	content, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, content, 0644)
}

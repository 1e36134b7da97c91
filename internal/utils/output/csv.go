package output

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/law-makers/pricewatch/internal/discount"
	"github.com/law-makers/pricewatch/pkg/models"
)

// CSVHeader lists the exported columns
var CSVHeader = []string{"Product Name", "Current Price", "Was Price", "Unit Price", "Promotion", "URL"}

// WriteCSV writes one row per successful record. Failed records are not exported.
func WriteCSV(w io.Writer, records []models.ScrapeRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, rec := range records {
		if !rec.OK() {
			continue
		}
		p := rec.Product
		row := []string{p.Name, p.Price, p.WasPrice, p.UnitPrice, discount.ClassifyProduct(p).Label, p.URL}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the CSV export to filepath
func SaveCSV(records []models.ScrapeRecord, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteCSV(file, records); err != nil {
		return err
	}
	return file.Close()
}

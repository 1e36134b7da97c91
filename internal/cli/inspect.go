// internal/cli/inspect.go
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/pricewatch/internal/discount"
	"github.com/law-makers/pricewatch/internal/engine"
	"github.com/law-makers/pricewatch/internal/engine/static"
	"github.com/law-makers/pricewatch/internal/store"
	"github.com/law-makers/pricewatch/internal/ui"
	"github.com/law-makers/pricewatch/internal/utils/output"
	"github.com/law-makers/pricewatch/pkg/models"
)

var (
	inspectStore string
	inspectURL   string
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <page.html>",
	Short: "Run a store's extraction against a saved page",
	Long: `Runs the Woolworths or Coles extraction offline against an HTML file, such as a
page saved with --debug. No browser is started.

The store is taken from --store, or from the file name prefix of a debug dump
(woolworths_... or coles_...).`,
	Example: `  # Re-check a debug dump after a failed run
  pricewatch inspect debug/coles_product-bread-456_20250101_120000.000.html

  # A page saved from the browser
  pricewatch inspect milk.html --store woolworths`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectStore, "store", "", "Store the page belongs to: woolworths or coles")
	inspectCmd.Flags().StringVar(&inspectURL, "url", "", "URL to record on the product (default: the file path)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	st := storeFromDump(path)
	if inspectStore != "" {
		st = store.Parse(inspectStore)
	}
	if st == models.StoreUnknown {
		return fmt.Errorf("cannot tell the store of %s, pass --store", filepath.Base(path))
	}

	strategy, err := engine.DefaultRegistry().For(st)
	if err != nil {
		return err
	}

	page, err := static.FromFile(path)
	if err != nil {
		return err
	}

	target := inspectURL
	if target == "" {
		target = "file://" + path
	}

	product, err := strategy.Extract(cmd.Context(), page, target)
	if err != nil {
		return fmt.Errorf("extraction failed [%s]: %w", engine.CodeOf(err), err)
	}

	d := discount.ClassifyProduct(product)
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\n%s\n", ui.Bold(product.Name))
	fmt.Fprintf(w, "  %-11s %s\n", "Store:", st)
	fmt.Fprintf(w, "  %-11s %s\n", "Price:", output.PriceDisplay(product.Price))
	fmt.Fprintf(w, "  %-11s %s\n", "Was:", output.WasDisplay(product.WasPrice))
	fmt.Fprintf(w, "  %-11s %s\n", "Unit price:", product.UnitPrice)
	fmt.Fprintf(w, "  %-11s %q\n", "Badge:", product.PromoBadge)
	fmt.Fprintf(w, "  %-11s %s\n\n", "Promotion:", ui.Promotion(d.Label))
	return nil
}

// storeFromDump reads the store from a debug dump name like coles_<slug>_<ts>.html
func storeFromDump(path string) models.Store {
	prefix, _, ok := strings.Cut(filepath.Base(path), "_")
	if !ok {
		return models.StoreUnknown
	}
	return store.Parse(prefix)
}

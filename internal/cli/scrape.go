// internal/cli/scrape.go
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/pricewatch/internal/app"
	"github.com/law-makers/pricewatch/internal/engine"
	"github.com/law-makers/pricewatch/internal/engine/batch"
	"github.com/law-makers/pricewatch/internal/store"
	"github.com/law-makers/pricewatch/internal/ui"
	"github.com/law-makers/pricewatch/internal/utils/output"
	"github.com/law-makers/pricewatch/pkg/models"
)

var (
	urlFile    string
	outputPath string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [url...]",
	Short: "Scrape product pages and report prices and specials",
	Long: `Scrapes each product URL in order through one browser session and prints a
table of the results.

URLs that are not Woolworths or Coles product pages are skipped. A product that
cannot be scraped after 3 attempts is reported as failed and the run moves on.
Press Ctrl+C to stop early; products scraped so far are still reported and saved.`,
	Example: `  # Scrape two products
  pricewatch scrape https://www.woolworths.com.au/shop/productdetails/123/milk https://www.coles.com.au/product/bread-456

  # Read URLs from a file (one per line, # for comments) and save a CSV
  pricewatch scrape --file products.txt --output prices.csv

  # Save JSON with a generated file name
  pricewatch scrape -f products.txt -o json`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&urlFile, "file", "f", "", "File with one product URL per line")
	scrapeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Save results: a .csv/.json path, or just csv/json for a generated name")
}

func runScrape(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	urls, err := collectURLs(args, urlFile)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no product URLs given (pass them as arguments or with --file)")
	}

	records, summary, runErr := scrapeOnce(cmd.Context(), a, urls, cmd.OutOrStdout())

	if outputPath != "" && len(records) > 0 {
		path, err := saveResults(outputPath, records, summary, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Success("✓ Saved to"), path)
	}

	return runErr
}

// scrapeOnce runs one batch and prints its results. Partial results are
// printed even when the run was aborted.
func scrapeOnce(ctx context.Context, a *app.Application, urls []string, w io.Writer) ([]models.ScrapeRecord, models.RunSummary, error) {
	runner, proxyURL := a.Runner()
	targets, _ := store.Targets(urls, a.Config.Stores)

	var bar *progressbar.ProgressBar
	if len(targets) > 0 && !a.Config.Quiet && !a.Config.JSONLog {
		bar = newProgressBar(len(targets))
		runner.OnProgress = func(p models.Progress) {
			_ = bar.Set(p.Completed)
		}
	}

	start := time.Now()
	records, err := runner.Run(ctx, urls)
	if bar != nil {
		_ = bar.Finish()
	}

	if proxyURL != "" {
		if engine.CodeOf(err) == engine.ErrCodeBrowserLaunch {
			a.Proxies.MarkFailed(proxyURL)
		} else {
			a.Proxies.MarkHealthy(proxyURL)
		}
	}

	summary := batch.Summarize(records, len(targets), time.Since(start))
	if len(records) > 0 {
		fmt.Fprintln(w)
		output.RenderTable(w, records, useColor())
		output.RenderFailures(w, records)
		fmt.Fprintf(w, "\n%s\n\n", ui.Bold(output.FormatSummary(summary)))
	}
	return records, summary, err
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Scraping"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

// saveResults writes records as CSV or JSON. dest is a file path whose extension
// picks the format, or a bare "csv"/"json" for a timestamped name.
func saveResults(dest string, records []models.ScrapeRecord, summary models.RunSummary, now time.Time) (string, error) {
	path := dest
	switch strings.ToLower(dest) {
	case "csv", "json":
		path = output.DefaultFilename(strings.ToLower(dest), now)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return path, output.SaveCSV(records, path)
	case ".json":
		return path, output.SaveJSON(output.NewExport(records, summary, now), path)
	default:
		return "", fmt.Errorf("unsupported output %q (use a .csv or .json file)", dest)
	}
}

// collectURLs merges argument URLs with those read from file. Blank lines and
// lines starting with # are ignored.
func collectURLs(args []string, file string) ([]string, error) {
	urls := make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			urls = append(urls, a)
		}
	}
	if file == "" {
		return urls, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	fromFile, err := readURLs(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}
	log.Debug().Str("file", file).Int("urls", len(fromFile)).Msg("URLs loaded")
	return append(urls, fromFile...), nil
}

func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

// useColor reports whether stdout output should carry ANSI colors
func useColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

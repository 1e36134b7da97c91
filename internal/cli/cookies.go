// internal/cli/cookies.go
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/law-makers/pricewatch/internal/cookies"
	"github.com/law-makers/pricewatch/internal/ui"
)

var importFormat string

// cookiesCmd represents the cookies command
var cookiesCmd = &cobra.Command{
	Use:   "cookies",
	Short: "Manage the saved browser cookie jar",
	Long: `The cookie jar carries the stores' session cookies from one run to the next, so a
challenge solved once is not asked again on every run.

It is kept in your OS keyring, or in ~/.pricewatch/cookies.json where no keyring
is available (CI, containers). Use --cookie-store to choose.`,
	Example: `  # What is in the jar
  pricewatch cookies show

  # Import cookies exported from your own browser
  pricewatch cookies import cookies.txt --format netscape

  # Start fresh
  pricewatch cookies clear`,
}

var cookiesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cookie counts per domain",
	Args:  cobra.NoArgs,
	RunE:  runCookiesShow,
}

var cookiesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved cookie",
	Args:  cobra.NoArgs,
	RunE:  runCookiesClear,
}

var cookiesImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Merge cookies exported from a browser into the jar",
	Long: `Reads cookies in JSON (an array of {name, value, domain, path, expires, ...}) or
Netscape cookies.txt format from a file, or stdin when no file is given, and merges
them into the jar. Imported cookies replace saved ones with the same name, domain
and path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCookiesImport,
}

func init() {
	rootCmd.AddCommand(cookiesCmd)
	cookiesCmd.AddCommand(cookiesShowCmd, cookiesClearCmd, cookiesImportCmd)

	cookiesImportCmd.Flags().StringVar(&importFormat, "format", "json", "Import format: json or netscape")
}

func jarFromCmd(cmd *cobra.Command) (cookies.Store, error) {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a.Jar, nil
}

func runCookiesShow(cmd *cobra.Command, args []string) error {
	jar, err := jarFromCmd(cmd)
	if err != nil {
		return err
	}
	saved, err := jar.Load()
	if err != nil {
		return fmt.Errorf("failed to load cookies: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\n%s %s\n", ui.Bold("Cookie jar:"), jar.Location())
	if len(saved) == 0 {
		fmt.Fprintln(w, "\nNo saved cookies.")
		fmt.Fprintln(w, "\nSolve a store's challenge once with:")
		fmt.Fprintln(w, "  pricewatch prime coles")
		fmt.Fprintln(w)
		return nil
	}

	live := cookies.Live(saved, time.Now())
	renderCookieTable(w, saved, live)
	return nil
}

func renderCookieTable(w io.Writer, saved, live []cookies.Cookie) {
	liveBy := make(map[string]int)
	for _, dc := range cookies.ByDomain(live) {
		liveBy[dc.Domain] = dc.Count
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Domain", "Cookies", "Live"})
	for _, dc := range cookies.ByDomain(saved) {
		t.AppendRow(table.Row{dc.Domain, dc.Count, liveBy[dc.Domain]})
	}
	t.AppendFooter(table.Row{"Total", len(saved), len(live)})
	t.Render()
}

func runCookiesClear(cmd *cobra.Command, args []string) error {
	jar, err := jarFromCmd(cmd)
	if err != nil {
		return err
	}
	if err := jar.Clear(); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Success("✓ Cleared"), jar.Location())
	return nil
}

func runCookiesImport(cmd *cobra.Command, args []string) error {
	jar, err := jarFromCmd(cmd)
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open cookie file: %w", err)
		}
		defer f.Close()
		r = f
	}

	imported, err := parseCookies(r, importFormat)
	if err != nil {
		return fmt.Errorf("failed to import cookies: %w", err)
	}
	if len(imported) == 0 {
		return fmt.Errorf("no cookies imported")
	}

	existing, err := jar.Load()
	if err != nil {
		return fmt.Errorf("failed to load cookies: %w", err)
	}
	merged := cookies.Merge(existing, imported)
	if err := jar.Save(merged); err != nil {
		return fmt.Errorf("failed to save cookies: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %d cookies (%d in jar)\n", ui.Success("✓ Imported"), len(imported), len(merged))
	return nil
}

func parseCookies(r io.Reader, format string) ([]cookies.Cookie, error) {
	switch format {
	case "json":
		return cookies.ParseJSON(r)
	case "netscape":
		return cookies.ParseNetscape(r)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use: json, netscape)", format)
	}
}

// internal/cli/prime.go
package cli

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/pricewatch/internal/engine/dynamic"
	"github.com/law-makers/pricewatch/internal/store"
	"github.com/law-makers/pricewatch/internal/ui"
	"github.com/law-makers/pricewatch/pkg/models"
)

// primeCmd represents the prime command
var primeCmd = &cobra.Command{
	Use:   "prime <store>",
	Short: "Open a store in a visible browser and save its cookies",
	Long: `Opens a visible browser on the store's homepage so you can clear any security
challenge by hand. Press Enter when the page has loaded normally; the browser's
cookies are then saved to the jar and reused by later runs, including headless ones.`,
	Example: `  pricewatch prime coles`,
	Args:    cobra.ExactArgs(1),
	RunE:    runPrime,
}

func init() {
	rootCmd.AddCommand(primeCmd)
}

func runPrime(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	st := store.Parse(args[0])
	if st == models.StoreUnknown {
		return fmt.Errorf("unknown store %q (use: woolworths, coles)", args[0])
	}

	ctx := cmd.Context()
	opts := a.SessionOptions(a.Proxies.GetNext())
	opts.Headless = false

	session, err := dynamic.Start(ctx, opts)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Page().Navigate(ctx, store.Homepage(st), time.Minute); err != nil {
		log.Warn().Err(err).Msg("Homepage did not finish loading, continue in the browser")
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\n%s %s\n", ui.Bold("Browser open on"), store.Homepage(st))
	fmt.Fprintln(w, ui.Info("Solve any challenge in the window, then press Enter here to save cookies."))

	if err := waitForEnter(ctx, cmd, session.Done()); err != nil {
		return err
	}

	if err := session.PersistCookies(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to save cookies: %w", err)
	}
	fmt.Fprintf(w, "%s %s\n", ui.Success("✓ Cookies saved to"), a.Jar.Location())
	return nil
}

// waitForEnter blocks until a line is read from stdin, the browser goes away or ctx is cancelled
func waitForEnter(ctx context.Context, cmd *cobra.Command, browser <-chan struct{}) error {
	line := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		line <- err
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-browser:
		return fmt.Errorf("browser window was closed before cookies were saved")
	case <-line:
		return nil
	}
}

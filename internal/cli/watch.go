// internal/cli/watch.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/pricewatch/internal/config"
	"github.com/law-makers/pricewatch/internal/ui"
)

var (
	watchEvery  time.Duration
	watchOutput string
	watchRounds int
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [url...]",
	Short: "Scrape the same products on a schedule",
	Long: `Runs the scrape batch every --every interval until interrupted.

Each round launches a fresh browser session. When several proxies are configured
they are rotated between rounds, and a proxy whose browser fails to start is
benched for a while.`,
	Example: `  # Check prices every 6 hours, saving a CSV each round
  pricewatch watch -f products.txt --every 6h --output csv

  # Rotate through two proxies
  pricewatch watch -f products.txt --every 1h --proxy http://p1:8080,http://p2:8080`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&urlFile, "file", "f", "", "File with one product URL per line")
	watchCmd.Flags().DurationVar(&watchEvery, "every", config.DefaultWatchInterval, "Interval between rounds")
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Save each round as csv or json (generated file names)")
	watchCmd.Flags().IntVar(&watchRounds, "rounds", 0, "Stop after this many rounds (0 runs until interrupted)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	if watchEvery < config.MinWatchInterval {
		return fmt.Errorf("--every must be at least %s", config.MinWatchInterval)
	}
	switch watchOutput {
	case "", "csv", "json":
	default:
		return fmt.Errorf("--output must be csv or json")
	}

	urls, err := collectURLs(args, urlFile)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no product URLs given (pass them as arguments or with --file)")
	}

	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	for round := 1; watchRounds == 0 || round <= watchRounds; round++ {
		fmt.Fprintf(w, "%s %s\n", ui.Bold(fmt.Sprintf("Round %d", round)), ui.Info(time.Now().Format(time.DateTime)))

		records, summary, err := scrapeOnce(ctx, a, urls, w)
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			log.Error().Err(err).Int("round", round).Msg("Round failed")
		}

		if watchOutput != "" && len(records) > 0 {
			path, err := saveResults(watchOutput, records, summary, time.Now())
			if err != nil {
				log.Error().Err(err).Msg("Failed to save results")
			} else {
				fmt.Fprintf(w, "%s %s\n", ui.Success("✓ Saved to"), path)
			}
		}

		if watchRounds != 0 && round == watchRounds {
			break
		}

		log.Info().Time("next", time.Now().Add(watchEvery)).Msg("Waiting for next round")
		timer := time.NewTimer(watchEvery)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
	return nil
}

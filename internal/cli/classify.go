// internal/cli/classify.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/pricewatch/internal/discount"
	"github.com/law-makers/pricewatch/internal/ui"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <price> <was-price> [badge]",
	Short: "Show the promotion label for a price pair",
	Example: `  pricewatch classify '$4.50' '$9.00'
  pricewatch classify 3.00 'Not applicable' 'Special'
  pricewatch classify '$5.00' '$6.00' '1/2 Price'`,
	Args: cobra.RangeArgs(2, 3),
	// Pure computation, no application needed
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		badge := ""
		if len(args) == 3 {
			badge = args[2]
		}
		d := discount.Classify(args[0], args[1], badge)
		if d.Label == "" {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Info("no promotion"))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Promotion(d.Label))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/pricewatch/internal/app"
	"github.com/law-makers/pricewatch/internal/config"
	"github.com/law-makers/pricewatch/internal/ui"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pricewatch",
	Short: "Track supermarket product prices and specials",
	Long: `Pricewatch scrapes Woolworths and Coles product pages with a real Chrome browser
and reports the current price, the previous price, the unit price and any promotion.

Products are scraped one at a time through a single browser session with human-like
pauses in between. Coles pages sit behind a bot check: run without --headless so
you can solve the challenge in the browser window when it appears.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx. Cancelling ctx (for example on SIGINT)
// stops any scrape in progress; partial results are still reported.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error("Error: "+err.Error()))
	}
	return err
}

func init() {
	config.RegisterFlags(rootCmd)

	// Application is built lazily so -h and --version never touch the keyring
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return nil
		}
		return a.Close(context.WithoutCancel(cmd.Context()))
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().BoolP("help", "h", false, "Help for pricewatch")
	rootCmd.Flags().Bool("version", false, "Version for pricewatch")

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printHelp(cmd.OutOrStdout(), cmd)
	})
	rootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		printUsage(cmd.ErrOrStderr(), cmd)
		return nil
	})
}

// printHelp writes a colorized help page
func printHelp(w io.Writer, cmd *cobra.Command) {
	fmt.Fprintf(w, "\n%s%s%s\n", ui.ColorBold+ui.ColorCyan, strings.ToUpper(cmd.Name()), ui.ColorReset)
	if cmd.Short != "" {
		fmt.Fprintln(w, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", wrapText(cmd.Long, 80))
	}

	printUsageLine(w, cmd)

	if cmd.HasExample() {
		section(w, "Examples")
		lastWasCommand := false
		for _, line := range strings.Split(cmd.Example, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case line == "":
				continue
			case strings.HasPrefix(line, "#"):
				if lastWasCommand {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "  %s%s%s\n", ui.ColorDim, line, ui.ColorReset)
				lastWasCommand = false
			default:
				fmt.Fprintf(w, "  %s$ %s%s\n", ui.ColorGreen, strings.TrimPrefix(line, "$ "), ui.ColorReset)
				lastWasCommand = true
			}
		}
	}

	printCommands(w, cmd)

	if cmd.HasAvailableLocalFlags() {
		section(w, "Flags")
		printFlags(w, cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		section(w, "Global Flags")
		printFlags(w, cmd.InheritedFlags().FlagUsages())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n%sUse \"%s <command> --help\" for more information about a command.%s\n",
			ui.ColorDim, cmd.CommandPath(), ui.ColorReset)
	}
	fmt.Fprintln(w)
}

// printUsage is the short form shown after a usage error
func printUsage(w io.Writer, cmd *cobra.Command) {
	printUsageLine(w, cmd)
	printCommands(w, cmd)
	if cmd.HasAvailableLocalFlags() {
		section(w, "Flags")
		printFlags(w, cmd.LocalFlags().FlagUsages())
	}
	fmt.Fprintf(w, "\n%sUse \"%s --help\" for more information.%s\n", ui.ColorDim, cmd.CommandPath(), ui.ColorReset)
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s%s%s\n", ui.ColorBold+ui.ColorWhite, title, ui.ColorReset)
}

func printUsageLine(w io.Writer, cmd *cobra.Command) {
	section(w, "Usage")
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s%s%s\n", ui.ColorCyan, cmd.UseLine(), ui.ColorReset)
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s%s%s %s<command>%s %s[flags]%s\n",
			ui.ColorCyan, cmd.CommandPath(), ui.ColorReset,
			ui.ColorYellow, ui.ColorReset,
			ui.ColorDim, ui.ColorReset)
	}
}

func printCommands(w io.Writer, cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	section(w, "Commands")

	var available []*cobra.Command
	width := 0
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() && c.Name() != "help" {
			available = append(available, c)
			width = max(width, len(c.Name()))
		}
	}
	for _, c := range available {
		fmt.Fprintf(w, "  %s%-*s%s  %s%s%s\n",
			ui.ColorCyan, width, c.Name(), ui.ColorReset,
			ui.ColorDim, c.Short, ui.ColorReset)
	}
}

// printFlags aligns and colors pflag's usage text
func printFlags(w io.Writer, usages string) {
	lines := strings.Split(usages, "\n")

	width := 28
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "-") {
			flag, _, _ := strings.Cut(trimmed, "  ")
			width = max(width, len(strings.TrimSpace(flag)))
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "-") {
			fmt.Fprintf(w, "%s%s%s%s\n", strings.Repeat(" ", width+4), ui.ColorDim, trimmed, ui.ColorReset)
			continue
		}
		flag, desc, ok := strings.Cut(trimmed, "  ")
		if !ok {
			fmt.Fprintf(w, "  %s%s%s\n", ui.ColorGreen, trimmed, ui.ColorReset)
			continue
		}
		fmt.Fprintf(w, "  %s%-*s%s  %s%s%s\n",
			ui.ColorGreen, width, strings.TrimSpace(flag), ui.ColorReset,
			ui.ColorDim, strings.TrimSpace(desc), ui.ColorReset)
	}
}

// wrapText wraps text at width, keeping paragraphs and list items on their own lines
func wrapText(text string, width int) string {
	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		var lines []string
		for _, line := range strings.Split(para, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
				lines = append(lines, line)
				continue
			}
			var cur strings.Builder
			for _, word := range strings.Fields(line) {
				if cur.Len() > 0 && cur.Len()+1+len(word) > width {
					lines = append(lines, cur.String())
					cur.Reset()
				}
				if cur.Len() > 0 {
					cur.WriteByte(' ')
				}
				cur.WriteString(word)
			}
			if cur.Len() > 0 {
				lines = append(lines, cur.String())
			}
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

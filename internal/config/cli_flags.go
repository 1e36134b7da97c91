package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Suppress all output except errors")
	pf.Bool("json", false, "Log in JSON format")
	pf.String("proxy", "", "HTTP/SOCKS5 proxy, or a comma separated list to rotate between runs")
	pf.String("user-agent", "", "Custom user agent string")
	pf.Bool("headless", DefaultHeadless, "Run the browser without a window (disables warmup and manual challenge solving)")
	pf.Bool("debug", false, "Save the page of every failed attempt")
	pf.String("debug-dir", DefaultDebugDir, "Directory for debug page dumps")
	pf.StringSlice("stores", []string{"woolworths", "coles"}, "Stores to scrape")
	pf.Float64("pacing", DefaultPacing, "Multiplier for the delay between products (0 disables)")
	pf.String("cookie-store", DefaultCookieStore, "Cookie jar storage: auto, file or keyring")
	pf.String("cookie-path", "", "Cookie jar file (default ~/.pricewatch/cookies.json)")
	pf.String("chrome-path", "", "Chrome/Chromium executable")
	pf.StringArrayP("header", "H", nil, "Extra request header \"Key: Value\" (repeatable)")
}

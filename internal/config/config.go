package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/law-makers/pricewatch/internal/proxy"
	"github.com/law-makers/pricewatch/internal/store"
	"github.com/law-makers/pricewatch/internal/utils/headers"
	"github.com/law-makers/pricewatch/pkg/models"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool
	Quiet    bool

	// Browser
	UserAgent  string
	Proxies    []string
	Headless   bool
	ChromePath string
	Headers    map[string]string

	// Run
	Stores         map[models.Store]bool
	Pacing         float64
	RateLimitRPS   float64
	RateLimitBurst int

	// Debug dumps
	Debug    bool
	DebugDir string

	// Cookie jar
	CookieStore string
	CookiePath  string
}

// Load builds a Config by layering defaults, environment variables and CLI flags.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:       DefaultLogLevel,
		JSONLog:        DefaultJSONLog,
		UserAgent:      DefaultUserAgent,
		Headless:       DefaultHeadless,
		DebugDir:       DefaultDebugDir,
		Stores:         store.All(),
		Pacing:         DefaultPacing,
		RateLimitRPS:   DefaultRateLimitRPS,
		RateLimitBurst: DefaultRateLimitBurst,
		CookieStore:    DefaultCookieStore,
		Headers:        map[string]string{},
	}

	var proxyList string

	if v := os.Getenv(EnvUserAgent); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv(EnvProxy); v != "" {
		proxyList = v
	}
	if v := os.Getenv(EnvChromePath); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv(EnvCookieStore); v != "" {
		cfg.CookieStore = v
	}
	if v := os.Getenv(EnvCookiePath); v != "" {
		cfg.CookiePath = v
	}

	if cmd != nil {
		flags := cmd.Flags()
		str := func(name string) (string, bool) {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				return "", false
			}
			return f.Value.String(), true
		}
		boolean := func(name string) (bool, bool) {
			f := flags.Lookup(name)
			if f == nil {
				return false, false
			}
			b, err := strconv.ParseBool(f.Value.String())
			return b, err == nil
		}

		if s, ok := str("user-agent"); ok && s != "" {
			cfg.UserAgent = s
		}
		if s, ok := str("proxy"); ok {
			proxyList = s
		}
		if s, ok := str("chrome-path"); ok && s != "" {
			cfg.ChromePath = s
		}
		if s, ok := str("cookie-store"); ok {
			cfg.CookieStore = s
		}
		if s, ok := str("cookie-path"); ok {
			cfg.CookiePath = s
		}
		if f := flags.Lookup("debug-dir"); f != nil && f.Value.String() != "" {
			cfg.DebugDir = f.Value.String()
		}
		if b, ok := boolean("headless"); ok {
			cfg.Headless = b
		}
		if b, ok := boolean("debug"); ok {
			cfg.Debug = b
		}
		if b, ok := boolean("json"); ok {
			cfg.JSONLog = b
		}
		if b, ok := boolean("quiet"); ok && b {
			cfg.Quiet = true
			cfg.LogLevel = "error"
		}
		if b, ok := boolean("verbose"); ok && b {
			cfg.LogLevel = "debug"
		}
		if f := flags.Lookup("pacing"); f != nil {
			v, err := strconv.ParseFloat(f.Value.String(), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid --pacing: %w", err)
			}
			cfg.Pacing = v
		}
		if names, err := flags.GetStringSlice("stores"); err == nil && flags.Lookup("stores") != nil {
			enabled, err := parseStores(names)
			if err != nil {
				return nil, err
			}
			cfg.Stores = enabled
		}
		if raw, err := flags.GetStringArray("header"); err == nil && len(raw) > 0 {
			h, err := headers.ParseHeaders(raw)
			if err != nil {
				return nil, err
			}
			cfg.Headers = h
		}
	}

	proxies, err := proxy.Parse(proxyList)
	if err != nil {
		return nil, err
	}
	cfg.Proxies = proxies

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func parseStores(names []string) (map[models.Store]bool, error) {
	enabled := make(map[models.Store]bool)
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			s := store.Parse(part)
			if s == models.StoreUnknown {
				return nil, fmt.Errorf("unknown store %q (use: woolworths, coles)", part)
			}
			enabled[s] = true
		}
	}
	return enabled, nil
}

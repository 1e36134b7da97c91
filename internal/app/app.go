// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/pricewatch/internal/config"
	"github.com/law-makers/pricewatch/internal/cookies"
	"github.com/law-makers/pricewatch/internal/engine"
	"github.com/law-makers/pricewatch/internal/engine/batch"
	"github.com/law-makers/pricewatch/internal/engine/dynamic"
	"github.com/law-makers/pricewatch/internal/pacing"
	"github.com/law-makers/pricewatch/internal/proxy"
	"github.com/law-makers/pricewatch/internal/ratelimit"
	"github.com/law-makers/pricewatch/internal/retry"
	"github.com/law-makers/pricewatch/internal/utils/output"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command invocation. Browser sessions are not owned by
// the Application: each run launches its own and closes it when done.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Jar         cookies.Store
	RateLimiter ratelimit.RateLimiter
	Proxies     *proxy.ProxyPool
	Registry    *engine.Registry
	Pacing      *pacing.Policy
	Dumper      engine.Dumper
	startTime   time.Time
}

// ConfigureLogging sets the global zerolog level and writer from cfg
func ConfigureLogging(cfg *config.Config, stderr io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(cfg.LogLevel))

	var w io.Writer = stderr
	if !cfg.JSONLog {
		w = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return log.Logger
}

// ParseLevel maps a config level name to zerolog. Unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates and initializes a new Application with all dependencies.
// No browser is started here.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := ConfigureLogging(cfg, os.Stderr)
	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	jar, err := cookies.Open(cfg.CookieStore, cfg.CookiePath)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("jar", jar.Location()).Msg("Cookie jar opened")

	limiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	a := &Application{
		Config:      cfg,
		Logger:      &logger,
		Jar:         jar,
		RateLimiter: limiter,
		Proxies:     proxy.NewProxyPool(cfg.Proxies),
		Registry:    engine.DefaultRegistry(),
		Pacing:      pacing.New(cfg.Pacing),
		startTime:   time.Now(),
	}
	if cfg.Debug {
		a.Dumper = output.NewDebugDumper(cfg.DebugDir)
		logger.Debug().Str("dir", cfg.DebugDir).Msg("Debug dumps enabled")
	}

	return a, nil
}

// SessionOptions builds browser options for one session through proxyURL ("" for direct)
func (a *Application) SessionOptions(proxyURL string) dynamic.Options {
	return dynamic.Options{
		Headless:   a.Config.Headless,
		UserAgent:  a.Config.UserAgent,
		ChromePath: a.Config.ChromePath,
		Proxy:      proxyURL,
		Headers:    a.Config.Headers,
		Jar:        a.Jar,
		Limiter:    a.RateLimiter,
		Profile:    dynamic.SydneyProfile(),
		Pacing:     a.Pacing,
	}
}

// Launcher returns a batch.Launcher that starts a Chrome session through proxyURL
func (a *Application) Launcher(proxyURL string) batch.Launcher {
	opts := a.SessionOptions(proxyURL)
	return func(ctx context.Context) (batch.Session, error) {
		s, err := dynamic.Start(ctx, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Runner builds a batch runner. The next proxy from the pool is used when one is configured.
func (a *Application) Runner() (*batch.Runner, string) {
	proxyURL := a.Proxies.GetNext()
	if proxyURL != "" {
		a.Logger.Debug().Str("proxy", proxyURL).Msg("Using proxy")
	}
	r := batch.New(a.Launcher(proxyURL), a.Registry, a.Pacing, batch.Options{
		Headless: a.Config.Headless,
		Stores:   a.Config.Stores,
		Retry:    retry.DefaultConfig(),
		Dumper:   a.Dumper,
	})
	return r, proxyURL
}

// Close releases application resources
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}

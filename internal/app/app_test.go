package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/law-makers/pricewatch/internal/config"
	"github.com/law-makers/pricewatch/internal/utils/output"
	"github.com/law-makers/pricewatch/pkg/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	cfg.CookieStore = "file"
	cfg.CookiePath = filepath.Join(t.TempDir(), "cookies.json")
	return cfg
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestConfigureLogging_JSON(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	cfg := testConfig(t)
	cfg.JSONLog = true
	cfg.LogLevel = "warn"

	logger := ConfigureLogging(cfg, &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Str("store", "coles").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"store":"coles"`)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestNew(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)

	cfg := testConfig(t)
	cfg.Debug = true
	cfg.DebugDir = t.TempDir()
	cfg.Proxies = []string{"http://p1:8080"}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	assert.Equal(t, cfg.CookiePath, a.Jar.Location())
	assert.IsType(t, &output.DebugDumper{}, a.Dumper)
	assert.Equal(t, 1, a.Proxies.Len())

	strategy, err := a.Registry.For(models.StoreColes)
	require.NoError(t, err)
	assert.Equal(t, models.StoreColes, strategy.Store())
}

func TestSessionOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Headless = true
	cfg.Headers = map[string]string{"Referer": "https://www.google.com/"}

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	opts := a.SessionOptions("socks5://127.0.0.1:1080")
	assert.True(t, opts.Headless)
	assert.Equal(t, "socks5://127.0.0.1:1080", opts.Proxy)
	assert.Equal(t, cfg.UserAgent, opts.UserAgent)
	assert.Equal(t, "Australia/Sydney", opts.Profile.Timezone)
	assert.Same(t, a.Pacing, opts.Pacing)
	assert.Equal(t, cfg.Headers, opts.Headers)

	runner, proxyURL := a.Runner()
	assert.NotNil(t, runner)
	assert.Empty(t, proxyURL)
}

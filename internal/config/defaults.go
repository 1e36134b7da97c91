package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel    = "info"
	DefaultJSONLog     = false
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	DefaultHeadless    = false
	DefaultDebugDir    = "debug"
	DefaultPacing      = 1.0
	DefaultCookieStore = "auto"

	// Navigation floor per host, on top of pacing
	DefaultRateLimitRPS   = 0.5
	DefaultRateLimitBurst = 1

	DefaultWatchInterval = 6 * time.Hour
	MinWatchInterval     = time.Minute
	MaxPacing            = 10.0
)

// Environment variables read by Load
const (
	EnvUserAgent   = "PRICEWATCH_USER_AGENT"
	EnvProxy       = "PRICEWATCH_PROXY"
	EnvChromePath  = "PRICEWATCH_CHROME_PATH"
	EnvCookieStore = "PRICEWATCH_COOKIE_STORE"
	EnvCookiePath  = "PRICEWATCH_COOKIE_PATH"
)

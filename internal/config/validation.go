package config

import "fmt"

func validate(c *Config) error {
	if c.Pacing < 0 || c.Pacing > MaxPacing {
		return fmt.Errorf("pacing must be between 0 and %.0f", MaxPacing)
	}
	if len(c.Stores) == 0 {
		return fmt.Errorf("at least one store must be enabled")
	}
	switch c.CookieStore {
	case "auto", "file", "keyring":
	default:
		return fmt.Errorf("cookie store must be auto, file or keyring, got %q", c.CookieStore)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be > 0")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}

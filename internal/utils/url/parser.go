package urlutil

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ValidateURL performs comprehensive URL validation
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// Slug returns the last non-empty path segment of a URL, used to label log lines and dump files.
// Falls back to the host when the path is empty.
func Slug(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return sanitize(urlStr)
	}
	p := strings.TrimRight(parsed.Path, "/")
	if p == "" {
		return sanitize(parsed.Host)
	}
	return sanitize(path.Base(p))
}

// Origin returns scheme://host for a URL
func Origin(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "page"
	}
	return b.String()
}

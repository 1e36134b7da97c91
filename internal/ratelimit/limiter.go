// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Defaults give at most one page load every two seconds per host, on top of
// the randomized pacing between products.
const (
	DefaultPerSecond = 0.5
	DefaultBurst     = 1
)

// RateLimiter puts a floor under the time between navigations to the same host
type RateLimiter interface {
	// Wait blocks until a navigation to urlStr may proceed, or ctx ends
	Wait(ctx context.Context, urlStr string) error

	// Allow reports whether a navigation may proceed now, consuming a token if so
	Allow(urlStr string) bool
}

// DomainLimiter keeps one token bucket per host
type DomainLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	perHost  rate.Limit
	burst    int
}

// NewDomainLimiter creates a limiter. Non-positive values select the defaults.
func NewDomainLimiter(requestsPerSecond float64, burst int) *DomainLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultPerSecond
	}
	if burst <= 0 {
		burst = DefaultBurst
	}

	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the navigation may proceed
func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	host := extractHost(urlStr)
	if host == "" {
		// Invalid URL, let it proceed (navigation reports the error)
		return nil
	}

	return dl.getLimiter(host).Wait(ctx)
}

// Allow checks if a navigation can proceed immediately without blocking
func (dl *DomainLimiter) Allow(urlStr string) bool {
	host := extractHost(urlStr)
	if host == "" {
		return true
	}
	return dl.getLimiter(host).Allow()
}

// Interval returns the minimum spacing between navigations to one host
func (dl *DomainLimiter) Interval() time.Duration {
	return time.Duration(float64(time.Second) / float64(dl.perHost))
}

func (dl *DomainLimiter) getLimiter(host string) *rate.Limiter {
	dl.mu.RLock()
	limiter, exists := dl.limiters[host]
	dl.mu.RUnlock()

	if exists {
		return limiter
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	if limiter, exists := dl.limiters[host]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(dl.perHost, dl.burst)
	dl.limiters[host] = limiter
	return limiter
}

// extractHost returns the lower-cased host without a leading "www."
func extractHost(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

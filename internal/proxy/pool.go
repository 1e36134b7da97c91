package proxy

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultCooldown is how long a proxy that failed to start a session is skipped
const DefaultCooldown = 5 * time.Minute

// ProxyPool rotates the proxy used for each browser session and benches
// proxies whose sessions failed
type ProxyPool struct {
	proxies  []string
	index    int
	mu       sync.Mutex
	failed   map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewProxyPool creates a new ProxyPool
func NewProxyPool(proxies []string) *ProxyPool {
	return &ProxyPool{
		proxies:  proxies,
		failed:   make(map[string]time.Time),
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
}

// Parse splits a comma separated proxy list and validates each entry
// (http, https or socks5 URLs)
func Parse(list string) ([]string, error) {
	var out []string
	for _, p := range strings.Split(list, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		u, err := url.Parse(p)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q", p)
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q in %q", u.Scheme, p)
		}
		out = append(out, p)
	}
	return out, nil
}

// Len returns the number of proxies in the pool
func (p *ProxyPool) Len() int {
	return len(p.proxies)
}

// GetNext returns the next proxy not in cooldown. When every proxy is benched
// the next one in rotation is returned anyway. An empty pool returns "".
func (p *ProxyPool) GetNext() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	start := p.index
	for {
		proxy := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		if failTime, ok := p.failed[proxy]; ok {
			if p.now().Sub(failTime) < p.cooldown {
				if p.index == start {
					return proxy
				}
				continue
			}
			delete(p.failed, proxy)
		}

		return proxy
	}
}

// MarkFailed benches a proxy for the cooldown period
func (p *ProxyPool) MarkFailed(proxy string) {
	if proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = p.now()
}

// MarkHealthy clears the failure status of a proxy
func (p *ProxyPool) MarkHealthy(proxy string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}

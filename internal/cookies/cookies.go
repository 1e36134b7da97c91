// Package cookies persists the browser cookie jar between runs.
package cookies

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Cookie represents a browser cookie
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"` // unix seconds; 0 or negative for session cookies
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Expired reports whether the cookie has an expiry in the past
func (c Cookie) Expired(now time.Time) bool {
	return c.Expires > 0 && time.Unix(int64(c.Expires), 0).Before(now)
}

// ExpiresAt returns the expiry time, or the zero time for session cookies
func (c Cookie) ExpiresAt() time.Time {
	if c.Expires <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(c.Expires), 0)
}

// Live drops expired cookies
func Live(cookies []Cookie, now time.Time) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if !c.Expired(now) {
			out = append(out, c)
		}
	}
	return out
}

// ByDomain groups cookie counts by domain, sorted by domain name
func ByDomain(cookies []Cookie) []DomainCount {
	counts := make(map[string]int)
	for _, c := range cookies {
		counts[strings.TrimPrefix(c.Domain, ".")]++
	}
	out := make([]DomainCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DomainCount{Domain: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Domain < out[j].Domain })
	return out
}

// DomainCount is the number of cookies held for one domain
type DomainCount struct {
	Domain string
	Count  int
}

// Merge overlays incoming on existing, replacing cookies with the same name, domain and path
func Merge(existing, incoming []Cookie) []Cookie {
	key := func(c Cookie) string { return c.Name + "\x00" + c.Domain + "\x00" + c.Path }

	idx := make(map[string]int, len(existing))
	out := append([]Cookie(nil), existing...)
	for i, c := range out {
		idx[key(c)] = i
	}
	for _, c := range incoming {
		if i, ok := idx[key(c)]; ok {
			out[i] = c
			continue
		}
		idx[key(c)] = len(out)
		out = append(out, c)
	}
	return out
}

// ParseJSON reads a JSON array of cookies
func ParseJSON(r io.Reader) ([]Cookie, error) {
	var cookies []Cookie
	if err := json.NewDecoder(r).Decode(&cookies); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return cookies, nil
}

// ParseNetscape reads cookies in the Netscape cookies.txt format exported by
// browser extensions and curl
func ParseNetscape(r io.Reader) ([]Cookie, error) {
	var cookies []Cookie
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		httpOnly := false
		if strings.HasPrefix(line, "#HttpOnly_") {
			httpOnly = true
			line = strings.TrimPrefix(line, "#HttpOnly_")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			fields = strings.Fields(line)
		}
		if len(fields) < 7 {
			continue
		}

		cookie := Cookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Name:     fields[5],
			Value:    fields[6],
			HTTPOnly: httpOnly,
		}

		if fields[4] != "0" {
			if epoch, err := strconv.ParseInt(fields[4], 10, 64); err == nil {
				cookie.Expires = float64(epoch)
			} else if expiry, err := time.Parse("2006-01-02", fields[4]); err == nil {
				cookie.Expires = float64(expiry.Unix())
			}
		}

		cookies = append(cookies, cookie)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cookies, nil
}

package dynamic

import (
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"

	"github.com/law-makers/pricewatch/internal/cookies"
)

// toCookieParams converts stored cookies to the form accepted by Network.setCookies
func toCookieParams(in []cookies.Cookie) []*network.CookieParam {
	out := make([]*network.CookieParam, 0, len(in))
	for _, c := range in {
		param := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.Expires > 0 {
			expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			param.Expires = &expires
		}
		switch c.SameSite {
		case "Strict":
			param.SameSite = network.CookieSameSiteStrict
		case "Lax":
			param.SameSite = network.CookieSameSiteLax
		case "None":
			param.SameSite = network.CookieSameSiteNone
		}
		out = append(out, param)
	}
	return out
}

// fromNetworkCookies converts browser cookies to the stored form
func fromNetworkCookies(in []*network.Cookie) []cookies.Cookie {
	out := make([]cookies.Cookie, 0, len(in))
	for _, c := range in {
		if c == nil {
			continue
		}
		out = append(out, cookies.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return out
}

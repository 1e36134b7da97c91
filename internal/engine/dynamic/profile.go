package dynamic

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// Profile is the device and locale the browser presents to sites
type Profile struct {
	Width          int
	Height         int
	Locale         string
	AcceptLanguage string
	Timezone       string
	Latitude       float64
	Longitude      float64
	Accuracy       float64
	Platform       string
}

// SydneyProfile is a desktop browser in Sydney
func SydneyProfile() Profile {
	return Profile{
		Width:          1920,
		Height:         1080,
		Locale:         "en-AU",
		AcceptLanguage: "en-AU,en",
		Timezone:       "Australia/Sydney",
		Latitude:       -33.8688,
		Longitude:      151.2093,
		Accuracy:       100,
		Platform:       "Win32",
	}
}

// profileActions applies the device profile, fingerprint masking and headers to a tab.
// They must run before the first navigation.
func profileActions(opts Options) []chromedp.Action {
	p := opts.Profile
	actions := []chromedp.Action{
		network.Enable(),
		emulation.SetDeviceMetricsOverride(int64(p.Width), int64(p.Height), 1, false),
		emulation.SetLocaleOverride().WithLocale(p.Locale),
		emulation.SetTimezoneOverride(p.Timezone),
		emulation.SetGeolocationOverride().
			WithLatitude(p.Latitude).
			WithLongitude(p.Longitude).
			WithAccuracy(p.Accuracy),
		emulation.SetUserAgentOverride(opts.UserAgent).
			WithAcceptLanguage(p.AcceptLanguage).
			WithPlatform(p.Platform),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript(p)).Do(ctx)
			return err
		}),
	}

	if len(opts.Headers) > 0 {
		h := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			h[k] = v
		}
		actions = append(actions, network.SetExtraHTTPHeaders(h))
	}

	return actions
}

// grantGeolocation allows each origin to read the emulated position.
// Permissions are a browser-level command, so they go through the browser executor.
func grantGeolocation(origins []string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		c := chromedp.FromContext(ctx)
		if c == nil || c.Browser == nil {
			return fmt.Errorf("no browser in context")
		}
		bctx := cdp.WithExecutor(ctx, c.Browser)
		for _, origin := range origins {
			err := browser.GrantPermissions([]browser.PermissionType{browser.PermissionTypeGeolocation}).
				WithOrigin(origin).
				Do(bctx)
			if err != nil {
				return fmt.Errorf("grant geolocation to %s: %w", origin, err)
			}
			log.Debug().Str("origin", origin).Msg("Geolocation granted")
		}
		return nil
	})
}

// internal/engine/dynamic/session.go
package dynamic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/pricewatch/internal/config"
	"github.com/law-makers/pricewatch/internal/cookies"
	"github.com/law-makers/pricewatch/internal/engine"
	"github.com/law-makers/pricewatch/internal/pacing"
	"github.com/law-makers/pricewatch/internal/ratelimit"
	"github.com/law-makers/pricewatch/internal/store"
	"github.com/law-makers/pricewatch/pkg/models"
)

// Options configures a browser session
type Options struct {
	Headless   bool
	UserAgent  string
	ChromePath string
	Proxy      string
	Headers    map[string]string
	Jar        cookies.Store
	Limiter    ratelimit.RateLimiter
	Profile    Profile
	// Pacing supplies the randomness for warmup scrolls and pauses
	Pacing *pacing.Policy
}

// Session owns one browser process and one tab for the lifetime of a run
type Session struct {
	opts        Options
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	page        *Page
	closeOnce   sync.Once
}

// Start launches Chrome, applies the device profile and loads the cookie jar.
// The browser outlives ctx; call Close to release it.
func Start(ctx context.Context, opts Options) (*Session, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if opts.Profile.Locale == "" {
		opts.Profile = SydneyProfile()
	}
	if opts.Pacing == nil {
		opts.Pacing = pacing.New(1)
	}

	chromePath := FindChrome(opts.ChromePath)
	log.Debug().
		Str("chrome", chromePath).
		Str("version", ChromeVersion(chromePath)).
		Bool("headless", opts.Headless).
		Msg("Launching browser")

	// The browser is not tied to ctx so cookies can still be read after cancellation
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts, chromePath)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			log.Debug().Msgf("chromedp: "+format, args...)
		}),
	)

	s := &Session{
		opts:        opts,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}

	// The first Run allocates the browser and binds its process to the context it is
	// given, so it must run on tabCtx itself. Launch time is bounded by a watchdog.
	if err := launch(ctx, tabCtx, tabCancel, launchTimeout); err != nil {
		s.Close()
		return nil, engine.NewEngineError(engine.ErrCodeBrowserLaunch, "failed to start browser", err)
	}

	launchCtx, cancel := context.WithTimeout(tabCtx, launchTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(launchCtx, profileActions(opts)...); err != nil {
		s.Close()
		return nil, engine.NewEngineError(engine.ErrCodeBrowserLaunch, "failed to apply browser profile", err)
	}

	if err := chromedp.Run(launchCtx, grantGeolocation(store.Origins())); err != nil {
		log.Warn().Err(err).Msg("Could not grant geolocation permission")
	}

	s.page = newPage(tabCtx, opts.Limiter)
	s.loadCookies(launchCtx)

	log.Info().Bool("headless", opts.Headless).Msg("Browser session started")
	return s, nil
}

// launchTimeout bounds browser start-up and profile setup
var launchTimeout = 60 * time.Second

// launch starts the browser with an empty Run on tabCtx. If ctx ends or timeout
// passes first, tabCancel tears the browser down and the Run fails.
func launch(ctx, tabCtx context.Context, tabCancel context.CancelFunc, timeout time.Duration) error {
	watchdog := time.AfterFunc(timeout, tabCancel)
	stop := context.AfterFunc(ctx, tabCancel)

	err := chromedp.Run(tabCtx)

	expired := !watchdog.Stop()
	interrupted := !stop()
	switch {
	case interrupted && ctx.Err() != nil:
		return ctx.Err()
	case expired:
		return fmt.Errorf("browser did not start within %s", timeout)
	}
	return err
}

// loadCookies restores the persisted jar. Failures are logged and ignored.
func (s *Session) loadCookies(ctx context.Context) {
	if s.opts.Jar == nil {
		return
	}
	saved, err := s.opts.Jar.Load()
	if err != nil {
		log.Warn().Err(err).Str("jar", s.opts.Jar.Location()).Msg("Failed to load cookies, starting fresh")
		return
	}
	live := cookies.Live(saved, time.Now())
	if len(live) == 0 {
		log.Debug().Str("jar", s.opts.Jar.Location()).Msg("No saved cookies")
		return
	}
	if err := chromedp.Run(ctx, network.SetCookies(toCookieParams(live))); err != nil {
		log.Warn().Err(err).Msg("Failed to restore cookies, starting fresh")
		return
	}
	log.Debug().
		Int("cookies", len(live)).
		Int("expired", len(saved)-len(live)).
		Msg("Cookies restored")
}

// Page returns the session's tab
func (s *Session) Page() engine.Page {
	return s.page
}

// Warmup visits the store homepage and scrolls around like a person would
// before any product page is requested
func (s *Session) Warmup(ctx context.Context, st models.Store) error {
	home := store.Homepage(st)
	if home == "" {
		return fmt.Errorf("no homepage for store %q", st)
	}

	log.Info().Str("store", st.String()).Msg("Warming up session")

	if err := s.page.Navigate(ctx, home, 30*time.Second); err != nil {
		return fmt.Errorf("warmup navigation: %w", err)
	}

	scrolls := 2 + s.opts.Pacing.Intn(3)
	for i := 0; i < scrolls; i++ {
		if err := s.page.Scroll(ctx, 300+s.opts.Pacing.Intn(700)); err != nil {
			return fmt.Errorf("warmup scroll: %w", err)
		}
		if err := s.opts.Pacing.Between(ctx, time.Second, 3*time.Second); err != nil {
			return err
		}
	}
	return nil
}

// Cookies reads every cookie held by the browser
func (s *Session) Cookies(ctx context.Context) ([]cookies.Cookie, error) {
	opCtx, cancel := context.WithTimeout(s.tabCtx, 10*time.Second)
	defer cancel()

	var got []*network.Cookie
	err := chromedp.Run(opCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		got, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read browser cookies: %w", err)
	}
	return fromNetworkCookies(got), nil
}

// PersistCookies saves the browser's cookies to the jar. It runs on the session's
// own context so it still works after ctx is cancelled.
func (s *Session) PersistCookies(ctx context.Context) error {
	if s.opts.Jar == nil {
		return nil
	}
	if s.tabCtx.Err() != nil {
		return engine.NewEngineError(engine.ErrCodeSessionLost, "cannot persist cookies", engine.ErrSessionLost)
	}

	current, err := s.Cookies(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}
	if err := s.opts.Jar.Save(current); err != nil {
		return err
	}
	log.Debug().Int("cookies", len(current)).Str("jar", s.opts.Jar.Location()).Msg("Cookies persisted")
	return nil
}

// Done is closed when the browser tab goes away
func (s *Session) Done() <-chan struct{} {
	return s.tabCtx.Done()
}

// Close shuts the browser down. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.tabCancel()
		s.allocCancel()
		log.Debug().Msg("Browser session closed")
	})
	return nil
}

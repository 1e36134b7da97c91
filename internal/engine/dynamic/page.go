package dynamic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/pricewatch/internal/engine"
	"github.com/law-makers/pricewatch/internal/ratelimit"
)

// Page drives the session's single tab through chromedp
type Page struct {
	tabCtx   context.Context
	limiter  ratelimit.RateLimiter
	domReady chan struct{}
}

func newPage(tabCtx context.Context, limiter ratelimit.RateLimiter) *Page {
	p := &Page{
		tabCtx:   tabCtx,
		limiter:  limiter,
		domReady: make(chan struct{}, 1),
	}
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if _, ok := ev.(*page.EventDomContentEventFired); ok {
			select {
			case p.domReady <- struct{}{}:
			default:
			}
		}
	})
	return p
}

// scope derives an operation context from the tab that also ends when ctx does
func (p *Page) scope(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithTimeout(p.tabCtx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

// classify maps a chromedp failure to an engine error
func (p *Page) classify(ctx context.Context, err error, code engine.ErrorCode, what string) error {
	if err == nil {
		return nil
	}
	if p.tabCtx.Err() != nil {
		return engine.NewEngineError(engine.ErrCodeSessionLost, "browser tab closed", engine.ErrSessionLost)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return engine.NewEngineError(engine.ErrCodeTimeout, what, engine.ErrTimeout).WithRetry()
	}
	return engine.NewEngineError(code, what, err).WithRetry()
}

// Navigate loads url and returns once DOMContentLoaded fires
func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, url); err != nil {
			return err
		}
	}

	select {
	case <-p.domReady:
	default:
	}

	opCtx, cancel := p.scope(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(opCtx, chromedp.Navigate(url))
	}()

	select {
	case <-p.domReady:
		log.Debug().Str("url", url).Dur("elapsed", time.Since(start)).Msg("DOM content loaded")
		return nil
	case err := <-done:
		if err != nil {
			return p.classify(ctx, err, engine.ErrCodeNavigation, "navigate to "+url)
		}
		return nil
	case <-opCtx.Done():
		return p.classify(ctx, opCtx.Err(), engine.ErrCodeNavigation,
			fmt.Sprintf("page load exceeded %s", timeout))
	}
}

// WaitVisible blocks until selector is visible
func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	opCtx, cancel := p.scope(ctx, timeout)
	defer cancel()

	err := chromedp.Run(opCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	return p.classify(ctx, err, engine.ErrCodeTimeout,
		fmt.Sprintf("waiting for %s exceeded %s", selector, timeout))
}

// Text returns the rendered text of the first match
func (p *Page) Text(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	opCtx, cancel := p.scope(ctx, timeout)
	defer cancel()

	var text string
	err := chromedp.Run(opCtx, chromedp.Text(selector, &text, chromedp.ByQuery, chromedp.NodeVisible))
	if err != nil {
		return "", p.classify(ctx, err, engine.ErrCodeNotFound, "read "+selector)
	}
	return text, nil
}

// Present reports whether selector matches within timeout
func (p *Page) Present(ctx context.Context, selector string, timeout time.Duration) bool {
	opCtx, cancel := p.scope(ctx, timeout)
	defer cancel()

	return chromedp.Run(opCtx, chromedp.WaitReady(selector, chromedp.ByQuery)) == nil
}

// HTML returns the document's outer HTML
func (p *Page) HTML(ctx context.Context) (string, error) {
	opCtx, cancel := p.scope(ctx, 10*time.Second)
	defer cancel()

	var html string
	err := chromedp.Run(opCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if err != nil {
		return "", p.classify(ctx, err, engine.ErrCodeNotFound, "read document")
	}
	return html, nil
}

// Scroll scrolls the window by dy pixels
func (p *Page) Scroll(ctx context.Context, dy int) error {
	opCtx, cancel := p.scope(ctx, 5*time.Second)
	defer cancel()

	err := chromedp.Run(opCtx, chromedp.Evaluate(fmt.Sprintf("window.scrollBy({top: %d, behavior: 'smooth'})", dy), nil))
	return p.classify(ctx, err, engine.ErrCodeNavigation, "scroll")
}

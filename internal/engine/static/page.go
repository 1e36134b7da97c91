// internal/engine/static/page.go
package static

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/pricewatch/internal/engine"
)

// Page serves pre-rendered documents through the engine.Page interface.
// It backs offline inspection of saved pages and the strategy tests.
// Waits never block: a selector either matches the loaded document or times out at once.
type Page struct {
	mu      sync.Mutex
	docs    map[string]string
	current *goquery.Document
	url     string
	// Fallback is served for URLs that were never loaded, when set
	Fallback string
	// Navigations counts Navigate calls
	Navigations int
}

// New creates an empty page
func New() *Page {
	return &Page{docs: make(map[string]string)}
}

// Load registers markup to be served for url
func (p *Page) Load(url, html string) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.docs[url] = html
	return p
}

// FromFile creates a page that serves the file's markup for any URL
func FromFile(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return FromReader(f)
}

// FromReader creates a page that serves r's markup for any URL
func FromReader(r io.Reader) (*Page, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	p := New()
	p.Fallback = string(b)
	return p, nil
}

// Navigate makes url's document current
func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.Navigations++

	html, ok := p.docs[url]
	if !ok {
		if p.Fallback == "" {
			return engine.NewEngineError(engine.ErrCodeNavigation, "no document for "+url, nil).WithRetry()
		}
		html = p.Fallback
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return engine.NewEngineError(engine.ErrCodeNavigation, "failed to parse document", err)
	}
	p.current = doc
	p.url = url

	log.Debug().Str("url", url).Msg("Loaded static document")
	return nil
}

// WaitVisible succeeds when selector matches the current document
func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if _, err := p.find(ctx, selector, timeout); err != nil {
		return err
	}
	return nil
}

// Text returns the text of the first match
func (p *Page) Text(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	sel, err := p.find(ctx, selector, timeout)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sel.First().Text()), nil
}

// Present reports whether selector matches the current document
func (p *Page) Present(ctx context.Context, selector string, timeout time.Duration) bool {
	_, err := p.find(ctx, selector, timeout)
	return err == nil
}

// HTML returns the current document
func (p *Page) HTML(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", engine.NewEngineError(engine.ErrCodeNavigation, "no document loaded", nil)
	}
	return p.current.Html()
}

// Scroll is a no-op
func (p *Page) Scroll(ctx context.Context, dy int) error {
	return ctx.Err()
}

// URL returns the URL of the current document
func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) find(ctx context.Context, selector string, timeout time.Duration) (*goquery.Selection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil, engine.NewEngineError(engine.ErrCodeNavigation, "no document loaded", nil)
	}
	sel := p.current.Find(selector)
	if sel.Length() == 0 {
		return nil, engine.NewEngineError(engine.ErrCodeTimeout,
			fmt.Sprintf("waiting for %s exceeded %s", selector, timeout), engine.ErrTimeout).WithRetry()
	}
	return sel, nil
}

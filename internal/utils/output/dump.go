package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	urlutil "github.com/law-makers/pricewatch/internal/utils/url"
	"github.com/law-makers/pricewatch/pkg/models"
)

// DebugDumper saves the page seen by a failed attempt as raw HTML plus a
// cleaned Markdown rendition
type DebugDumper struct {
	Dir string
	now func() time.Time
}

// NewDebugDumper creates a dumper writing into dir
func NewDebugDumper(dir string) *DebugDumper {
	return &DebugDumper{Dir: dir, now: time.Now}
}

// Dump writes <dir>/<store>_<slug>_<timestamp>.html and .md and returns the HTML path
func (d *DebugDumper) Dump(store models.Store, pageURL, html string) (string, error) {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("create debug dir: %w", err)
	}

	base := fmt.Sprintf("%s_%s_%s", string(store), urlutil.Slug(pageURL), d.now().Format("20060102_150405.000"))
	htmlPath := filepath.Join(d.Dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("write debug html: %w", err)
	}

	markdown, err := ToMarkdown(html, pageURL)
	if err != nil {
		log.Debug().Err(err).Msg("Could not render debug markdown")
		return htmlPath, nil
	}
	header := fmt.Sprintf("# %s\n\nURL: %s\n\n", Title(html), pageURL)
	if err := os.WriteFile(filepath.Join(d.Dir, base+".md"), []byte(header+markdown), 0644); err != nil {
		return htmlPath, fmt.Errorf("write debug markdown: %w", err)
	}
	return htmlPath, nil
}

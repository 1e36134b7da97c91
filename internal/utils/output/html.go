package output

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// CleanHTML strips scripts, styling and most attributes from a page so a debug
// dump reads as content. Class attributes survive because extraction selectors
// match on them.
func CleanHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, link, meta, noscript, svg, canvas, template").Remove()

	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		node := s.Nodes[0]
		var kept []html.Attribute
		for _, attr := range node.Attr {
			switch {
			case attr.Key == "class", attr.Key == "id":
				kept = append(kept, attr)
			case node.Data == "a" && attr.Key == "href":
				kept = append(kept, attr)
			case (node.Data == "img" || node.Data == "iframe") && attr.Key == "src":
				kept = append(kept, attr)
			}
		}
		node.Attr = kept
	})

	htmlStr, err := doc.Html()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(htmlStr), nil
}

// Title returns the document title, or ""
func Title(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

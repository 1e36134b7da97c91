package output

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	urlutil "github.com/law-makers/pricewatch/internal/utils/url"
)

// ToMarkdown renders a page as Markdown for reading a debug dump.
// Relative links are resolved against pageURL.
func ToMarkdown(htmlContent, pageURL string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	origin := urlutil.Origin(pageURL)
	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}
			if strings.HasPrefix(href, "/") && origin != "" {
				href = origin + href
			}
			str := fmt.Sprintf("[%s](%s)", strings.TrimSpace(selec.Text()), href)
			return &str
		},
	})

	cleaned, err := CleanHTML(htmlContent)
	if err != nil {
		return "", err
	}
	return converter.ConvertString(cleaned)
}

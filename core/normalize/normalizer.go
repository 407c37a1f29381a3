// Package normalize exports a simplified page as Markdown.
// Hidden original-text annotations and the injected stylesheet are dropped
// first, so the Markdown reads like the page as displayed.
package normalize

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/pagesimplify/core/render"
)

// MarkdownNormalizer converts HTML to Markdown using html-to-markdown.
type MarkdownNormalizer struct{}

// New creates a MarkdownNormalizer.
func New() *MarkdownNormalizer {
	return &MarkdownNormalizer{}
}

// Normalize converts an HTML page or fragment into Markdown.
func (n *MarkdownNormalizer) Normalize(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("style, script, noscript").Remove()
	doc.Find("." + render.ClassOriginal).Each(func(_ int, s *goquery.Selection) {
		if style, _ := s.Attr("style"); render.IsHidden(style) {
			s.Remove()
		}
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	cleaned, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}

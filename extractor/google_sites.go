package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	minPartLength = 10
	maxParts      = 20
)

// Google Sites pages bury the authored content under generated class
// names. The cascade tries the known content containers first and falls
// back to basic text elements.
var googleSitesSelectors = []string{
	`div[data-dtype="d"]`,
	".zfr3Q",
	".uGdb3",
	"p, h1, h2, h3, li",
}

func (e *Extractor) extractGoogleSites(htmlContent string) Content {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		e.logger.Warn("google sites extraction: parse failed", zap.Error(err))
		return Content{}
	}

	doc.Find("script, style, noscript").Remove()

	var parts []string
	var htmlParts []string
	for _, selector := range googleSitesSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		sel.Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > minPartLength {
				parts = append(parts, text)
				if fragment, err := goquery.OuterHtml(s); err == nil {
					htmlParts = append(htmlParts, fragment)
				}
			}
		})
		if len(parts) > 0 {
			break
		}
	}

	if len(parts) > maxParts {
		parts = parts[:maxParts]
	}
	if len(htmlParts) > maxParts {
		htmlParts = htmlParts[:maxParts]
	}

	if len(parts) == 0 {
		// No known container matched, take whatever text the page has.
		if body := strings.TrimSpace(doc.Find("body").Text()); body != "" {
			parts = append(parts, body)
		}
	}

	return Content{
		Text:     joinParagraphs(parts),
		Markdown: toMarkdown(strings.Join(htmlParts, "\n")),
	}
}

package extractor

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// extractArticle handles article-shaped pages: trafilatura first, then
// readability when trafilatura finds nothing.
func (e *Extractor) extractArticle(htmlContent, pageURL string) Content {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		parsedURL = &url.URL{}
	}

	opts := trafilatura.Options{OriginalURL: parsedURL}
	result, err := trafilatura.Extract(strings.NewReader(htmlContent), opts)
	if err == nil && strings.TrimSpace(result.ContentText) != "" {
		var md string
		if result.ContentNode != nil {
			if nodeHTML, err := renderNode(result.ContentNode); err == nil {
				md = toMarkdown(nodeHTML)
			}
		}
		return Content{
			Text:     joinParagraphs(strings.Split(result.ContentText, "\n")),
			Markdown: md,
		}
	}
	if err != nil {
		e.logger.Warn("trafilatura extraction failed", zap.String("url", pageURL), zap.Error(err))
	}

	article, err := readability.FromReader(strings.NewReader(htmlContent), parsedURL)
	if err != nil {
		e.logger.Warn("readability extraction failed", zap.String("url", pageURL), zap.Error(err))
		return Content{}
	}

	return Content{
		Text:     joinParagraphs(strings.Split(article.TextContent, "\n")),
		Markdown: toMarkdown(article.Content),
	}
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Strategy selects how markup is reduced to text. The set is closed: a
// source either names one explicitly or gets one by domain.
type Strategy string

const (
	StrategyAuto        Strategy = ""
	StrategyGoogleSites Strategy = "google_sites"
	StrategyArticle     Strategy = "article"
	StrategyGeneric     Strategy = "generic"
)

// Content is one page reduced to plain text plus a markdown rendering of
// the same content region.
type Content struct {
	Text     string
	Markdown string
}

type Extractor struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns whitespace-normalized plain text for the page. It is
// total: malformed input degrades through fallbacks down to a raw tag
// strip, never an error. Empty string is the worst outcome.
func (e *Extractor) Extract(htmlContent, pageURL string) string {
	return e.ExtractContent(htmlContent, pageURL, StrategyAuto).Text
}

// ExtractContent runs the selected strategy and also produces a markdown
// rendering of the chosen content region.
func (e *Extractor) ExtractContent(htmlContent, pageURL string, strategy Strategy) Content {
	if strings.TrimSpace(htmlContent) == "" {
		return Content{}
	}
	if strategy == StrategyAuto {
		strategy = strategyFor(pageURL)
	}

	var content Content
	switch strategy {
	case StrategyGoogleSites:
		content = e.extractGoogleSites(htmlContent)
	case StrategyArticle:
		content = e.extractArticle(htmlContent, pageURL)
	default:
		content = e.extractGeneric(htmlContent)
	}

	if content.Text == "" {
		content.Text = fallbackExtract(htmlContent)
	}
	return content
}

func strategyFor(pageURL string) Strategy {
	if strings.Contains(pageURL, "sites.google.com") {
		return StrategyGoogleSites
	}
	return StrategyGeneric
}

// extractGeneric strips non-content elements and walks the visible text.
func (e *Extractor) extractGeneric(htmlContent string) Content {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		e.logger.Warn("generic extraction: parse failed", zap.Error(err))
		return Content{}
	}

	doc.Find("script, style, nav, header, footer, aside, noscript").Remove()

	var parts []string
	doc.Find("main, article, section, p, h1, h2, h3, h4, h5, h6, li").Each(func(i int, s *goquery.Selection) {
		if s.ChildrenFiltered("main, article, section, p, h1, h2, h3, h4, h5, h6, li").Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if len(text) > 10 {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		doc.Find("div").Each(func(i int, s *goquery.Selection) {
			if s.ChildrenFiltered("div").Length() > 0 {
				return
			}
			text := strings.TrimSpace(s.Text())
			if len(text) > 20 {
				parts = append(parts, text)
			}
		})
	}

	if len(parts) == 0 {
		if body := strings.TrimSpace(doc.Find("body").Text()); body != "" {
			parts = append(parts, body)
		}
	}

	var md string
	if bodyHTML, err := doc.Find("body").Html(); err == nil {
		md = toMarkdown(bodyHTML)
	}

	return Content{Text: joinParagraphs(parts), Markdown: md}
}

// joinParagraphs collapses runs of whitespace inside each part and keeps
// paragraph boundaries as single newlines.
func joinParagraphs(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		fields := strings.Fields(p)
		if len(fields) == 0 {
			continue
		}
		out = append(out, strings.Join(fields, " "))
	}
	return strings.Join(out, "\n")
}

// fallbackExtract walks raw tokens, skipping script and style bodies. If
// even tokenizing yields nothing, everything between < and > is dropped.
func fallbackExtract(htmlContent string) string {
	z := html.NewTokenizer(strings.NewReader(htmlContent))
	var parts []string
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if text := joinParagraphs(parts); text != "" {
				return text
			}
			return joinParagraphs([]string{stripTags(htmlContent)})
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if skipDepth == 0 {
				if text := strings.TrimSpace(string(z.Text())); text != "" {
					parts = append(parts, text)
				}
			}
		}
	}
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

package extractor

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// toMarkdown converts a content HTML fragment to markdown. Conversion is
// best effort; callers fall back to plain text when it comes back empty.
func toMarkdown(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}

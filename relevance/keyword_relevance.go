package relevance

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// KeywordFilter scores text by the fraction of query keywords it
// contains. Keywords are matched as substrings, so stemmed forms still
// hit their inflected originals.
type KeywordFilter struct {
	matcher  *ahocorasick.Matcher
	keywords []string
}

func NewKeywordFilter(keywords []string) *KeywordFilter {
	cleaned := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			cleaned = append(cleaned, k)
		}
	}

	return &KeywordFilter{
		matcher:  ahocorasick.NewStringMatcher(cleaned),
		keywords: cleaned,
	}
}

// Score returns the fraction of keywords present in content, in [0, 1].
func (f *KeywordFilter) Score(content string) float32 {
	if len(f.keywords) == 0 || content == "" {
		return 0
	}

	matches := f.matcher.MatchThreadSafe([]byte(strings.ToLower(content)))
	if len(matches) == 0 {
		return 0
	}

	found := make(map[string]struct{}, len(matches))
	for _, idx := range matches {
		found[f.keywords[idx]] = struct{}{}
	}

	return float32(len(found)) / float32(len(f.keywords))
}

// Matches reports whether any keyword is present in content.
func (f *KeywordFilter) Matches(content string) bool {
	return f.Score(content) > 0
}

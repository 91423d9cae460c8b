package search

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// KeywordExtractor reduces a free-text query to stemmed keywords for
// logging and relevance scoring. It never affects which hits match.
type KeywordExtractor struct {
	stopWords map[string]struct{}
}

func NewKeywordExtractor() *KeywordExtractor {
	stopWords := make(map[string]struct{})
	for _, w := range []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "he", "in", "is", "it", "its", "of", "on", "that", "the",
		"to", "was", "were", "will", "with", "would", "could", "should",
		"may", "might", "can", "must", "do", "does", "did", "have", "had",
		"this", "these", "they", "them", "their", "his", "her", "she",
		"we", "you", "your", "our", "us", "me", "my", "i", "what", "who",
		"about", "tell",
	} {
		stopWords[w] = struct{}{}
	}
	return &KeywordExtractor{stopWords: stopWords}
}

// Extract lowercases, strips punctuation, drops stop words, stems, and
// dedupes.
func (ke *KeywordExtractor) Extract(query string) []string {
	query = nonWord.ReplaceAllString(strings.ToLower(query), " ")

	var keywords []string
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(query) {
		if len(word) < 2 {
			continue
		}
		if _, stop := ke.stopWords[word]; stop {
			continue
		}
		stemmed := stemWord(word)
		if _, dup := seen[stemmed]; dup {
			continue
		}
		seen[stemmed] = struct{}{}
		keywords = append(keywords, stemmed)
	}
	return keywords
}

func stemWord(word string) string {
	stem, err := snowball.Stem(word, "english", true)
	if err != nil {
		return word
	}
	return stem
}

package search

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"profilemcp/aggregator"
	"profilemcp/relevance"
)

// ErrEmptyQuery marks a search call with a blank query. The caller
// violated the contract; nothing is fetched.
var ErrEmptyQuery = errors.New("search query must not be empty")

// Hit is one match inside one source's text.
type Hit struct {
	Source  string  `json:"source"`
	Snippet string  `json:"snippet"`
	Offset  int     `json:"offset"`
	Score   float32 `json:"score,omitempty"`
}

type Resolver interface {
	Resolve(ctx context.Context, names []string) map[string]aggregator.Result
	Order() []string
}

// Engine answers free-text queries over the aggregated profile corpus.
// Matching is case-insensitive substring; hits are grouped by configured
// source order and by ascending offset within a source. The Score field
// is informational only and never reorders hits.
type Engine struct {
	resolver     Resolver
	snippetWidth int
	keywords     *KeywordExtractor
	logger       *zap.Logger
}

func NewEngine(resolver Resolver, snippetWidth int, logger *zap.Logger) *Engine {
	return &Engine{
		resolver:     resolver,
		snippetWidth: snippetWidth,
		keywords:     NewKeywordExtractor(),
		logger:       logger,
	}
}

// Search resolves the requested sources (all profile sources when names
// is empty) and scans each text for the query. A source that failed to
// resolve is skipped; an unknown source name is an argument error.
func (e *Engine) Search(ctx context.Context, query string, names []string) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	keywords := e.keywords.Extract(query)
	e.logger.Debug("search",
		zap.String("query", query),
		zap.Strings("keywords", keywords))

	results := e.resolver.Resolve(ctx, names)
	for _, result := range results {
		if errors.Is(result.Err, aggregator.ErrUnknownSource) {
			return nil, result.Err
		}
	}

	scorer := relevance.NewKeywordFilter(keywords)

	needle := strings.ToLower(query)
	hits := []Hit{}
	for _, name := range e.orderedNames(results) {
		result := results[name]
		if result.Err != nil || result.Text == "" {
			continue
		}

		haystack := strings.ToLower(result.Text)
		offsets := findAll(haystack, needle)
		if len(offsets) == 0 {
			continue
		}

		score := scorer.Score(haystack)
		for _, offset := range offsets {
			hits = append(hits, Hit{
				Source:  name,
				Snippet: snippet(result.Text, offset, len(needle), e.snippetWidth),
				Offset:  offset,
				Score:   score,
			})
		}
	}

	return hits, nil
}

// orderedNames returns the resolved names in the fixed configured order.
func (e *Engine) orderedNames(results map[string]aggregator.Result) []string {
	var out []string
	for _, name := range e.resolver.Order() {
		if _, ok := results[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

func findAll(haystack, needle string) []int {
	var offsets []int
	from := 0
	for {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return offsets
		}
		offsets = append(offsets, from+idx)
		from += idx + 1
	}
}

// snippet returns a window of width bytes centered on the match, clipped
// to the text boundaries.
func snippet(text string, offset, matchLen, width int) string {
	if width <= matchLen {
		width = matchLen
	}
	pad := (width - matchLen) / 2

	start := offset - pad
	if start < 0 {
		start = 0
	}
	end := start + width
	if end > len(text) {
		end = len(text)
		if start = end - width; start < 0 {
			start = 0
		}
	}
	return text[start:end]
}

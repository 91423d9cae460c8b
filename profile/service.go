package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"profilemcp/aggregator"
	"profilemcp/config"
	"profilemcp/metrics"
	"profilemcp/search"
)

// Format selects the rendering of a profile section.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

type Resolver interface {
	Resolve(ctx context.Context, names []string) map[string]aggregator.Result
	Refresh(ctx context.Context, name string) aggregator.Result
	Order() []string
}

type Searcher interface {
	Search(ctx context.Context, query string, names []string) ([]search.Hit, error)
}

// Service implements the tool entry points. Every method returns
// renderable text; degraded "Error: ..." output is the terminal result
// under total network unavailability, never a crash.
type Service struct {
	cfg      *config.Config
	resolver Resolver
	engine   Searcher
	logger   *zap.Logger
}

func NewService(cfg *config.Config, resolver Resolver, engine Searcher, logger *zap.Logger) *Service {
	return &Service{
		cfg:      cfg,
		resolver: resolver,
		engine:   engine,
		logger:   logger,
	}
}

func (s *Service) ProfileOverview(ctx context.Context, format Format) string {
	return s.section(ctx, "get_profile_overview", "overview", "Profile Overview", format)
}

func (s *Service) Experience(ctx context.Context, format Format) string {
	return s.section(ctx, "get_experience", "experience", "Work Experience", format)
}

func (s *Service) Publications(ctx context.Context, format Format) string {
	return s.section(ctx, "get_publications", "publications", "Publications and Conferences", format)
}

func (s *Service) CareerTimeline(ctx context.Context, format Format) string {
	return s.section(ctx, "get_career_timeline", "career_timeline", "Career Timeline", format)
}

func (s *Service) section(ctx context.Context, tool, name, header string, format Format) string {
	src, ok := s.cfg.Source(name)
	if !ok {
		metrics.ToolCallsTotal.WithLabelValues(tool, "error").Inc()
		return fmt.Sprintf("Error: source %q is not configured", name)
	}

	result := s.resolver.Resolve(ctx, []string{name})[name]
	if result.Err != nil {
		metrics.ToolCallsTotal.WithLabelValues(tool, "error").Inc()
		s.logger.Warn("section unavailable",
			zap.String("source", name),
			zap.Error(result.Err))
		return fmt.Sprintf("Error: unable to fetch content from %s: %v", src.URL, result.Err)
	}

	body := result.Text
	if format == FormatMarkdown && result.Markdown != "" {
		body = result.Markdown
	}

	metrics.ToolCallsTotal.WithLabelValues(tool, "ok").Inc()
	return fmt.Sprintf("%s:\n\n%s\n\nSource: %s", header, body, src.URL)
}

// SocialLinks lists the static social URLs; no fetch happens. An empty
// or "all" platform lists every configured link.
func (s *Service) SocialLinks(platform string) string {
	metrics.ToolCallsTotal.WithLabelValues("get_social_links", "ok").Inc()

	social := s.cfg.SocialSources()
	platform = strings.ToLower(strings.TrimSpace(platform))

	if platform == "" || platform == "all" {
		var b strings.Builder
		b.WriteString("Social Media Profiles:\n\n")
		for _, src := range social {
			fmt.Fprintf(&b, "• %s: %s\n", titleCase(src.Name), src.URL)
		}
		return b.String()
	}

	for _, src := range social {
		if src.Name == platform {
			return fmt.Sprintf("%s: %s", titleCase(src.Name), src.URL)
		}
	}

	names := make([]string, 0, len(social))
	for _, src := range social {
		names = append(names, src.Name)
	}
	return fmt.Sprintf("Platform %q not found. Available platforms: %s",
		platform, strings.Join(names, ", "))
}

// SearchContent runs a free-text search and renders the hits grouped by
// section.
func (s *Service) SearchContent(ctx context.Context, query string, sources []string) string {
	hits, err := s.engine.Search(ctx, query, sources)
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues("search_profile_content", "error").Inc()
		switch {
		case errors.Is(err, search.ErrEmptyQuery):
			return "Error: search query must not be empty"
		case errors.Is(err, aggregator.ErrUnknownSource):
			return fmt.Sprintf("Error: %v. Available sources: %s",
				err, strings.Join(s.resolver.Order(), ", "))
		default:
			return fmt.Sprintf("Error: search failed: %v", err)
		}
	}

	metrics.ToolCallsTotal.WithLabelValues("search_profile_content", "ok").Inc()
	if len(hits) == 0 {
		return fmt.Sprintf("No results found for %q in the profile content.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for %q:\n\n", query)
	var current string
	for _, hit := range hits {
		if hit.Source != current {
			current = hit.Source
			fmt.Fprintf(&b, "**%s:**\n", titleCase(hit.Source))
		}
		fmt.Fprintf(&b, "• %s\n", hit.Snippet)
	}
	for _, name := range groupOrder(hits) {
		if src, ok := s.cfg.Source(name); ok {
			fmt.Fprintf(&b, "Source (%s): %s\n", titleCase(name), src.URL)
		}
	}
	return b.String()
}

// RefreshSection forces a refetch of one source, bypassing the TTL.
func (s *Service) RefreshSection(ctx context.Context, name string) string {
	result := s.resolver.Refresh(ctx, name)
	if result.Err != nil {
		return fmt.Sprintf("Error: refresh of %q failed: %v", name, result.Err)
	}
	return fmt.Sprintf("Refreshed %q (%d characters).", name, len(result.Text))
}

func groupOrder(hits []search.Hit) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, hit := range hits {
		if _, ok := seen[hit.Source]; ok {
			continue
		}
		seen[hit.Source] = struct{}{}
		names = append(names, hit.Source)
	}
	return names
}

// titleCase renders a source name for display: underscores become spaces
// and each word is capitalized.
func titleCase(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

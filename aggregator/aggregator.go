package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"profilemcp/cache"
	"profilemcp/config"
	"profilemcp/extractor"
	"profilemcp/fetcher"
)

// ErrUnknownSource marks a request for a source name that is not
// configured. It is never retried.
var ErrUnknownSource = errors.New("unknown source")

type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type ContentExtractor interface {
	ExtractContent(htmlContent, pageURL string, strategy extractor.Strategy) extractor.Content
}

type Store interface {
	Get(name string) (cache.Snapshot, bool)
	Put(name string, snapshot cache.Snapshot)
	Invalidate(name string)
}

// Result is the per-source outcome of one Resolve call. Exactly one of
// Text (possibly empty) or Err is meaningful.
type Result struct {
	Text     string
	Markdown string
	Err      error
}

// Aggregator resolves named sources through the cache, fanning out
// concurrent fetches for the misses.
type Aggregator struct {
	sources    map[string]config.Source
	order      []string
	fetcher    PageFetcher
	extractor  ContentExtractor
	store      Store
	logger     *zap.Logger
	maxRetries int
}

func New(sources []config.Source, f PageFetcher, e ContentExtractor, store Store, logger *zap.Logger) *Aggregator {
	byName := make(map[string]config.Source, len(sources))
	order := make([]string, 0, len(sources))
	for _, s := range sources {
		if s.Category != config.CategoryProfile {
			continue
		}
		byName[s.Name] = s
		order = append(order, s.Name)
	}
	return &Aggregator{
		sources:    byName,
		order:      order,
		fetcher:    f,
		extractor:  e,
		store:      store,
		logger:     logger,
		maxRetries: 1,
	}
}

// Order returns the configured profile source names in fixed order.
func (a *Aggregator) Order() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Resolve answers every requested name, or every configured profile
// source when names is empty. Cache hits are served directly; misses are
// fetched concurrently. One failing source never aborts its siblings:
// its map entry carries the error and the call itself always succeeds.
func (a *Aggregator) Resolve(ctx context.Context, names []string) map[string]Result {
	if len(names) == 0 {
		names = a.order
	}

	logger := a.logger.With(zap.String("resolve_id", uuid.NewString()))

	results := make(map[string]Result, len(names))
	var misses []config.Source

	for _, name := range names {
		if _, done := results[name]; done {
			continue
		}

		src, ok := a.sources[name]
		if !ok {
			results[name] = Result{Err: fmt.Errorf("%w: %q", ErrUnknownSource, name)}
			continue
		}

		if snapshot, hit := a.store.Get(name); hit {
			logger.Debug("cache hit", zap.String("source", name))
			results[name] = Result{Text: snapshot.Text, Markdown: snapshot.Markdown}
			continue
		}

		results[name] = Result{} // reserved, filled in after the fan-out
		misses = append(misses, src)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, src := range misses {
		wg.Add(1)
		go func(src config.Source) {
			defer wg.Done()
			result := a.fetchSource(ctx, logger, src)
			mu.Lock()
			results[src.Name] = result
			mu.Unlock()
		}(src)
	}

	wg.Wait()
	return results
}

// Refresh invalidates the named source and resolves it again.
func (a *Aggregator) Refresh(ctx context.Context, name string) Result {
	if _, ok := a.sources[name]; !ok {
		return Result{Err: fmt.Errorf("%w: %q", ErrUnknownSource, name)}
	}
	a.store.Invalidate(name)
	return a.Resolve(ctx, []string{name})[name]
}

// fetchSource fetches and extracts one source, retrying once on transient
// failure, and writes through to the cache on success.
func (a *Aggregator) fetchSource(ctx context.Context, logger *zap.Logger, src config.Source) Result {
	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Info("retrying fetch",
				zap.String("source", src.Name),
				zap.Int("attempt", attempt+1))
		}

		body, err := a.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			lastErr = err
			var ferr *fetcher.Error
			if errors.As(err, &ferr) && ferr.Retryable() && attempt < a.maxRetries {
				continue
			}
			break
		}

		content := a.extractor.ExtractContent(body, src.URL, extractor.Strategy(src.Strategy))
		snapshot := cache.Snapshot{Text: content.Text, Markdown: content.Markdown}
		a.store.Put(src.Name, snapshot)

		logger.Info("source resolved",
			zap.String("source", src.Name),
			zap.Int("text_length", len(content.Text)))

		return Result{Text: content.Text, Markdown: content.Markdown}
	}

	logger.Warn("source failed after retries",
		zap.String("source", src.Name),
		zap.Error(lastErr))

	return Result{Err: lastErr}
}

package fetcher

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"profilemcp/metrics"
)

const maxBodySize = 5 << 20 // 5 MiB, profile pages are small

type Fetcher struct {
	client    *http.Client
	transport *http.Transport
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
}

// NewFetcher creates a fetcher with a tuned transport. The timeout bounds
// every Fetch call unless the caller's context expires first.
func NewFetcher(timeout time.Duration, userAgent string, logger *zap.Logger) *Fetcher {
	transport := &http.Transport{
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: timeout,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}

	return &Fetcher{
		client:    client,
		transport: transport,
		timeout:   timeout,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Fetch performs a single GET and returns the response body. All failures
// come back as *Error; no retries happen at this layer.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() {
		return "", &Error{Kind: KindInvalidArgument, URL: rawURL, Message: "not an absolute URL"}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{Kind: KindInvalidArgument, URL: rawURL, Message: err.Error()}
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	metrics.FetchDuration.WithLabelValues(parsed.Host).Observe(time.Since(start).Seconds())
	if err != nil {
		ferr := classify(rawURL, err)
		f.logger.Warn("fetch failed",
			zap.String("url", rawURL),
			zap.String("kind", string(ferr.Kind)),
			zap.Error(err))
		metrics.FetchesTotal.WithLabelValues(parsed.Host, string(ferr.Kind)).Inc()
		return "", ferr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		metrics.FetchesTotal.WithLabelValues(parsed.Host, string(KindHTTPStatus)).Inc()
		return "", &Error{Kind: KindHTTPStatus, URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		ferr := classify(rawURL, err)
		metrics.FetchesTotal.WithLabelValues(parsed.Host, string(ferr.Kind)).Inc()
		return "", ferr
	}

	metrics.FetchesTotal.WithLabelValues(parsed.Host, "ok").Inc()
	f.logger.Debug("fetch ok",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_size", len(body)))

	return string(body), nil
}

// CloseIdleConnections releases pooled connections held by the transport.
func (f *Fetcher) CloseIdleConnections() {
	f.transport.CloseIdleConnections()
}

func classify(rawURL string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, URL: rawURL, Message: err.Error()}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, URL: rawURL, Message: err.Error()}
	}
	// http.Client wraps context errors in *url.Error
	if strings.Contains(err.Error(), "context deadline exceeded") {
		return &Error{Kind: KindTimeout, URL: rawURL, Message: err.Error()}
	}
	return &Error{Kind: KindNetworkFailure, URL: rawURL, Message: err.Error()}
}

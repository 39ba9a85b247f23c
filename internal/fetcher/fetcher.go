package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultFeedURL is the Expo changelog feed.
const DefaultFeedURL = "https://expo.dev/changelog/rss.xml"

type Options struct {
	FeedURL   string
	Strategy  Strategy
	UserAgent string
	// Timeout bounds a single request; zero leaves it unbounded.
	Timeout time.Duration
}

type HTTPFetcher struct {
	client    *http.Client
	log       *slog.Logger
	feedURL   string
	strategy  Strategy
	userAgent string
}

func New(opts Options, log *slog.Logger) *HTTPFetcher {
	if opts.FeedURL == "" {
		opts.FeedURL = DefaultFeedURL
	}
	if opts.Strategy == nil {
		opts.Strategy = Direct{}
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		log:       log,
		feedURL:   opts.FeedURL,
		strategy:  opts.Strategy,
		userAgent: opts.UserAgent,
	}
}

// Fetch performs one GET for the feed document. Failures are *NetworkError
// or *FetchError; nothing is retried here.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	target, err := f.strategy.Resolve(f.feedURL)
	if err != nil {
		return nil, err
	}
	log := f.log.With(
		slog.String("url", target),
		slog.String("strategy", f.strategy.Name()),
	)
	log.Info("Fetching URL")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create request for url %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Error(
			"HTTP request failed",
			slog.Any("error", err),
		)
		return nil, &NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error(
			"Unexpected status code",
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, &FetchError{StatusCode: resp.StatusCode, URL: target}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", slog.Any("error", err))
		return nil, &NetworkError{URL: target, Err: err}
	}
	log.Info("Successfully fetched URL", slog.Int("bytes", len(body)))
	return body, nil
}

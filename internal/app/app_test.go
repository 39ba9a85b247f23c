package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"changelogreader/internal/infrastructure/config"
)

func TestBuildServesParsedFeed(t *testing.T) {
	var calls int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`<rss><channel><item><guid>g</guid><title>T</title></item></channel></rss>`))
	}))
	defer upstream.Close()

	cfg := &config.Config{
		App:     config.AppConfig{Name: "test", FeedURL: upstream.URL},
		Fetcher: config.FetcherConfig{Mode: "direct"},
		Retry:   config.RetryConfig{MaxAttempts: 2, InitialIntervalMs: 1, MaxIntervalMs: 2},
		HTTP:    config.HTTPConfig{CacheMaxAge: 60, WriteTimeout: 5},
	}
	srv, cleanup, err := build(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer cleanup()

	api := httptest.NewServer(srv.Handler)
	defer api.Close()

	resp, err := http.Get(api.URL + "/articles/g")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, calls)

	resp, err = http.Get(api.URL + "/api/feed")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "public, max-age=60", resp.Header.Get("Cache-Control"))
}

func TestBuildRejectsUnknownMode(t *testing.T) {
	cfg := &config.Config{Fetcher: config.FetcherConfig{Mode: "carrier-pigeon"}}
	_, _, err := build(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"changelogreader/internal/infrastructure/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig(writeConfig(t, "app:\n  name: reader\n"))
	require.NoError(t, err)

	require.Equal(t, "reader", cfg.GetAppName())
	require.Equal(t, "https://expo.dev/changelog/rss.xml", cfg.App.FeedURL)
	require.Equal(t, "direct", cfg.Fetcher.Mode)
	require.Zero(t, cfg.GetFetchTimeout())
	require.Equal(t, 1, cfg.Retry.MaxAttempts)
	require.Equal(t, 500*time.Millisecond, cfg.GetRetryInitialInterval())
	require.Equal(t, ":8080", cfg.GetHTTPAddr())
	require.Equal(t, 300*time.Second, cfg.GetCacheMaxAge())
	require.Equal(t, "info", cfg.Logging.Level)
	require.False(t, cfg.KafkaEnabled())
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("FETCH_MODE", "relay")
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "broker-a:9092, broker-b:9092")

	cfg, err := config.LoadConfig(writeConfig(t, `
fetcher:
  mode: ${FETCH_MODE}
  timeout: 15
retry:
  max_attempts: 3
http:
  host: 127.0.0.1
  port: ${PORT}
kafka:
  brokers: ["${KAFKA_BROKERS}"]
  topic: articles
`))
	require.NoError(t, err)

	require.Equal(t, "relay", cfg.Fetcher.Mode)
	require.Equal(t, 15*time.Second, cfg.GetFetchTimeout())
	require.Equal(t, 3, cfg.Retry.MaxAttempts)
	require.Equal(t, "127.0.0.1:9090", cfg.GetHTTPAddr())
	require.True(t, cfg.KafkaEnabled())
	require.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "articles", cfg.Kafka.Topic)
}

func TestLoadConfigEmptyBrokersDisableKafka(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := config.LoadConfig(writeConfig(t, "kafka:\n  brokers: [\"${KAFKA_BROKERS}\"]\n"))
	require.NoError(t, err)
	require.False(t, cfg.KafkaEnabled())
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad yaml", body: "app: [unclosed"},
		{name: "unknown mode", body: "fetcher:\n  mode: proxy\n"},
		{name: "negative timeout", body: "fetcher:\n  timeout: -1\n"},
		{name: "negative attempts", body: "retry:\n  max_attempts: -2\n"},
		{name: "inverted intervals", body: "retry:\n  initial_interval_ms: 1000\n  max_interval_ms: 10\n"},
		{name: "port out of range", body: "http:\n  port: 70000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := config.LoadConfig("")
	require.Error(t, err)

	_, err = config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfigRepositoryFile(t *testing.T) {
	t.Setenv("FETCH_MODE", "")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := config.LoadConfig(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, "direct", cfg.Fetcher.Mode)
	require.Equal(t, "0.0.0.0:8080", cfg.GetHTTPAddr())
}

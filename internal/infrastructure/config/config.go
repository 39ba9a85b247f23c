package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "./configs/config.yaml"

type AppConfig struct {
	Name    string `yaml:"name"`
	FeedURL string `yaml:"feed_url"`
}

type FetcherConfig struct {
	// Mode is "direct" or "relay".
	Mode          string `yaml:"mode"`
	RelayEndpoint string `yaml:"relay_endpoint"`
	// Timeout in seconds, 0 disables it.
	Timeout int `yaml:"timeout"`
}

type RetryConfig struct {
	MaxAttempts       int `yaml:"max_attempts"`
	InitialIntervalMs int `yaml:"initial_interval_ms"`
	MaxIntervalMs     int `yaml:"max_interval_ms"`
}

type HTTPConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
	CacheMaxAge  int    `yaml:"cache_max_age"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type Config struct {
	App     AppConfig     `yaml:"app"`
	Fetcher FetcherConfig `yaml:"fetcher"`
	Retry   RetryConfig   `yaml:"retry"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
	Kafka   KafkaConfig   `yaml:"kafka"`
}

func (c *Config) GetAppName() string {
	return c.App.Name
}

func (c *Config) GetFetchTimeout() time.Duration {
	return time.Duration(c.Fetcher.Timeout) * time.Second
}

func (c *Config) GetRetryInitialInterval() time.Duration {
	return time.Duration(c.Retry.InitialIntervalMs) * time.Millisecond
}

func (c *Config) GetRetryMaxInterval() time.Duration {
	return time.Duration(c.Retry.MaxIntervalMs) * time.Millisecond
}

func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func (c *Config) GetHTTPReadTimeout() time.Duration {
	return time.Duration(c.HTTP.ReadTimeout) * time.Second
}

func (c *Config) GetHTTPWriteTimeout() time.Duration {
	return time.Duration(c.HTTP.WriteTimeout) * time.Second
}

func (c *Config) GetCacheMaxAge() time.Duration {
	return time.Duration(c.HTTP.CacheMaxAge) * time.Second
}

// KafkaEnabled is false when no broker is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file is empty")
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(raw))

	var cfg Config

	if err = yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "changelog-reader"
	}
	if c.App.FeedURL == "" {
		c.App.FeedURL = "https://expo.dev/changelog/rss.xml"
	}
	if c.Fetcher.Mode == "" {
		c.Fetcher.Mode = "direct"
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 1
	}
	if c.Retry.InitialIntervalMs == 0 {
		c.Retry.InitialIntervalMs = 500
	}
	if c.Retry.MaxIntervalMs == 0 {
		c.Retry.MaxIntervalMs = 5000
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 30
	}
	if c.HTTP.CacheMaxAge == 0 {
		c.HTTP.CacheMaxAge = 300
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "changelog_articles"
	}
	c.Kafka.Brokers = splitAndTrim(c.Kafka.Brokers)
}

func (c *Config) validate() error {
	switch c.Fetcher.Mode {
	case "direct", "relay":
	default:
		return fmt.Errorf("fetcher.mode must be direct or relay, got %q", c.Fetcher.Mode)
	}
	if c.Fetcher.Timeout < 0 {
		return fmt.Errorf("fetcher.timeout cannot be negative")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be positive")
	}
	if c.Retry.MaxIntervalMs < c.Retry.InitialIntervalMs {
		return fmt.Errorf("retry.max_interval_ms cannot be less than retry.initial_interval_ms")
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.HTTP.Port)
	}
	if c.HTTP.CacheMaxAge < 0 {
		return fmt.Errorf("http.cache_max_age cannot be negative")
	}
	return nil
}

// splitAndTrim accepts both YAML lists and comma separated values from env.
func splitAndTrim(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

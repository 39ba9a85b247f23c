package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"changelogreader/internal/fetcher"
	"changelogreader/internal/infrastructure/config"
	"changelogreader/internal/logger"
	"changelogreader/internal/parser"
	"changelogreader/internal/publisher"
	transport "changelogreader/internal/transport/http"
	"changelogreader/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Run запускает сервис чтения changelog-фида.
func Run() error {
	// .env необязателен: в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.DefaultPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Logging, cfg.GetAppName())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	srv, cleanup, err := build(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server changelog reader start working", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// build собирает зависимости; cleanup закрывает то, что требует закрытия.
func build(cfg *config.Config, log *slog.Logger) (*http.Server, func(), error) {
	strategy, err := fetcher.StrategyFor(cfg.Fetcher.Mode, cfg.Fetcher.RelayEndpoint)
	if err != nil {
		return nil, nil, err
	}
	httpFetcher := fetcher.New(fetcher.Options{
		FeedURL:   cfg.App.FeedURL,
		Strategy:  strategy,
		UserAgent: cfg.GetAppName(),
		Timeout:   cfg.GetFetchTimeout(),
	}, log.With(slog.String("component", "fetcher")))

	var feedFetcher usecase.FeedFetcher = httpFetcher
	if cfg.Retry.MaxAttempts > 1 {
		feedFetcher = fetcher.NewRetrying(httpFetcher, fetcher.RetryPolicy{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			InitialInterval: cfg.GetRetryInitialInterval(),
			MaxInterval:     cfg.GetRetryMaxInterval(),
		}, log)
	}

	cleanup := func() {}
	var pub usecase.ArticlePublisher
	if cfg.KafkaEnabled() {
		kafkaPub := publisher.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		pub = kafkaPub
		cleanup = func() {
			if err := kafkaPub.Close(); err != nil {
				log.Error("Failed to close Kafka writer", slog.Any("error", err))
			}
		}
		log.Info("Kafka publisher enabled",
			slog.Any("brokers", cfg.Kafka.Brokers),
			slog.String("topic", cfg.Kafka.Topic),
		)
	}

	articles := usecase.NewArticlesUseCase(feedFetcher, parser.New(log), pub, log)
	api := transport.NewApi(articles, log, transport.Options{
		CacheMaxAge:    cfg.GetCacheMaxAge(),
		RequestTimeout: cfg.GetHTTPWriteTimeout(),
	})

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.GetHTTPReadTimeout(),
		WriteTimeout:      cfg.GetHTTPWriteTimeout(),
	}
	return srv, cleanup, nil
}

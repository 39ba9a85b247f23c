package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"changelogreader/internal/domain"
)

var ErrArticleNotFound = errors.New("article not found")

type ArticlesUseCase struct {
	fetcher   FeedFetcher
	parser    FeedParser
	publisher ArticlePublisher
	log       *slog.Logger
}

// NewArticlesUseCase собирает сценарий; publisher может быть nil.
func NewArticlesUseCase(
	fetcher FeedFetcher,
	parser FeedParser,
	publisher ArticlePublisher,
	log *slog.Logger,
) *ArticlesUseCase {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &ArticlesUseCase{
		fetcher:   fetcher,
		parser:    parser,
		publisher: publisher,
		log:       log,
	}
}

// Raw возвращает документ фида без изменений.
func (uc *ArticlesUseCase) Raw(ctx context.Context) ([]byte, error) {
	body, err := uc.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	return body, nil
}

// Articles выполняет полный цикл: получение, парсинг и публикацию статей.
// Ошибки публикации только логируются.
func (uc *ArticlesUseCase) Articles(ctx context.Context) ([]domain.Article, error) {
	start := time.Now()
	log := uc.log.With(slog.String("component", "articles"))
	log.Info("Loading feed started")

	body, err := uc.fetcher.Fetch(ctx)
	if err != nil {
		log.Error("Feed fetch failed",
			slog.String("stage", "fetch"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	log.Debug("Feed fetched successfully", slog.String("stage", "fetch"))

	articles, err := uc.parser.Parse(ctx, bytes.NewReader(body))
	if err != nil {
		log.Error("Feed parsing error",
			slog.String("stage", "parse"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("parse failed: %w", err)
	}
	log.Debug("Feed parsed successfully",
		slog.String("stage", "parse"),
		slog.Int("items_parsed", len(articles)),
	)

	if err := uc.publisher.Publish(ctx, articles); err != nil {
		log.Warn("Articles publish failed",
			slog.String("stage", "publish"),
			slog.Any("error", err),
		)
	}

	log.Info("Loading feed completed successfully",
		slog.Int("items_found", len(articles)),
		slog.Duration("duration", time.Since(start)),
	)
	return articles, nil
}

// Article ищет статью по идентификатору в свежем документе фида.
func (uc *ArticlesUseCase) Article(ctx context.Context, id string) (domain.Article, error) {
	articles, err := uc.Articles(ctx)
	if err != nil {
		return domain.Article{}, err
	}
	for _, a := range articles {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Article{}, fmt.Errorf("%w: %s", ErrArticleNotFound, id)
}

package usecase

import (
	"context"
	"io"

	"changelogreader/internal/domain"
)

// FeedFetcher — получение сырого документа фида.
type FeedFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FeedParser — разбор документа в статьи.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader) ([]domain.Article, error)
}

// ArticlePublisher — доставка разобранных статей внешним потребителям.
type ArticlePublisher interface {
	Publish(ctx context.Context, articles []domain.Article) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, []domain.Article) error { return nil }

package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"changelogreader/internal/domain"
	"changelogreader/internal/fetcher"
	"changelogreader/internal/parser"
	"changelogreader/internal/usecase"
)

const feed = `<rss><channel>
<item><guid>a</guid><title>First</title><link>https://x/a</link></item>
<item><title>Second</title><link>https://x/b</link></item>
</channel></rss>`

type stubFetcher struct {
	body []byte
	err  error
}

func (s stubFetcher) Fetch(context.Context) ([]byte, error) { return s.body, s.err }

type recordingPublisher struct {
	got [][]domain.Article
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, articles []domain.Article) error {
	p.got = append(p.got, articles)
	return p.err
}

func newUseCase(f usecase.FeedFetcher, pub usecase.ArticlePublisher) *usecase.ArticlesUseCase {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return usecase.NewArticlesUseCase(f, parser.New(log), pub, log)
}

func TestArticles(t *testing.T) {
	pub := &recordingPublisher{}
	uc := newUseCase(stubFetcher{body: []byte(feed)}, pub)

	articles, err := uc.Articles(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)
	require.Equal(t, "a", articles[0].ID)
	require.Equal(t, "https://x/b", articles[1].ID)
	require.Len(t, pub.got, 1)
	require.Equal(t, articles, pub.got[0])
}

func TestArticlesPublishFailureIsNotFatal(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	uc := newUseCase(stubFetcher{body: []byte(feed)}, pub)

	articles, err := uc.Articles(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)
}

func TestArticlesWithoutPublisher(t *testing.T) {
	uc := newUseCase(stubFetcher{body: []byte(feed)}, nil)

	articles, err := uc.Articles(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)
}

func TestArticlesPropagatesFetchError(t *testing.T) {
	uc := newUseCase(stubFetcher{err: &fetcher.FetchError{StatusCode: http.StatusServiceUnavailable, URL: "u"}}, nil)

	_, err := uc.Articles(context.Background())
	var fetchErr *fetcher.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
}

func TestArticle(t *testing.T) {
	uc := newUseCase(stubFetcher{body: []byte(feed)}, nil)

	a, err := uc.Article(context.Background(), "https://x/b")
	require.NoError(t, err)
	require.Equal(t, "Second", a.Title)

	_, err = uc.Article(context.Background(), "missing")
	require.ErrorIs(t, err, usecase.ErrArticleNotFound)
}

func TestRaw(t *testing.T) {
	uc := newUseCase(stubFetcher{body: []byte(feed)}, nil)

	body, err := uc.Raw(context.Background())
	require.NoError(t, err)
	require.Equal(t, feed, string(body))

	netErr := &fetcher.NetworkError{URL: "u", Err: errors.New("refused")}
	uc = newUseCase(stubFetcher{err: netErr}, nil)
	_, err = uc.Raw(context.Background())
	require.ErrorIs(t, err, netErr)
}

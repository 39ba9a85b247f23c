package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	httputils "github.com/Fau1con/renderresponse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"changelogreader/internal/dateformat"
	"changelogreader/internal/domain"
	"changelogreader/internal/fetcher"
	"changelogreader/internal/pagination"
	"changelogreader/internal/usecase"
)

const feedLoadFailed = "Failed to load feed"

// ArticlesService — то, что транспорту нужно от сценария статей.
type ArticlesService interface {
	Articles(ctx context.Context) ([]domain.Article, error)
	Article(ctx context.Context, id string) (domain.Article, error)
	Raw(ctx context.Context) ([]byte, error)
}

type Options struct {
	CacheMaxAge    time.Duration
	RequestTimeout time.Duration
	// Now подменяется в тестах.
	Now func() time.Time
}

type Api struct {
	router chi.Router
	svc    ArticlesService
	log    *slog.Logger
	opts   Options
}

func NewApi(svc ArticlesService, log *slog.Logger, opts Options) *Api {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	api := Api{
		router: chi.NewRouter(),
		svc:    svc,
		log:    log,
		opts:   opts,
	}
	api.endpoints()
	return &api
}

func (api *Api) Router() http.Handler {
	return api.router
}

// Метод регистратор endpoint-ов.
func (api *Api) endpoints() {
	api.router.Use(RequestIDMiddleware)
	api.router.Use(LoggingMiddleware(api.log))
	api.router.Use(CORSMiddleware())
	api.router.Use(middleware.Recoverer)

	api.router.Get("/health", api.HealthHandler)
	// сырой документ фида, как есть
	api.router.Get("/api/feed", api.RawFeedHandler)
	api.router.Get("/articles", api.ArticlesHandler)
	// id статьи часто сам является URL, поэтому берём весь остаток пути
	api.router.Get("/articles/*", api.ArticleHandler)
}

func (api *Api) HealthHandler(w http.ResponseWriter, r *http.Request) {
	httputils.RenderJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (api *Api) RawFeedHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), api.opts.RequestTimeout)
	defer cancel()

	body, err := api.svc.Raw(ctx)
	if err != nil {
		api.renderUpstreamError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(api.opts.CacheMaxAge.Seconds())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		api.log.Warn("Failed to write feed response", slog.Any("error", err))
	}
}

type articleView struct {
	domain.Article
	RelativeDate string `json:"relativeDate,omitempty"`
	FullDate     string `json:"fullDate,omitempty"`
}

type articlesPage struct {
	TotalResults int           `json:"totalResults"`
	TotalPages   int           `json:"totalPages"`
	CurrentPage  int           `json:"currentPage"`
	PerPage      int           `json:"perPage"`
	Results      []articleView `json:"results"`
}

func (api *Api) ArticlesHandler(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		httputils.RenderError(w, "Invalid page parameter", http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", pagination.DefaultPerPage)
	if err != nil {
		httputils.RenderError(w, "Invalid limit parameter", http.StatusBadRequest)
		return
	}
	withDates := r.URL.Query().Get("format") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), api.opts.RequestTimeout)
	defer cancel()

	articles, err := api.svc.Articles(ctx)
	if err != nil {
		api.renderUpstreamError(w, r, err)
		return
	}

	pag := pagination.New(articles, page, limit)
	now := api.opts.Now()
	views := make([]articleView, 0, len(pag.Results))
	for _, a := range pag.Results {
		views = append(views, api.view(a, withDates, now))
	}

	httputils.RenderJSON(w, articlesPage{
		TotalResults: pag.TotalResults,
		TotalPages:   pag.TotalPages,
		CurrentPage:  pag.CurrentPage,
		PerPage:      pag.PerPage,
		Results:      views,
	}, http.StatusOK)
}

func (api *Api) ArticleHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}
	if id == "" {
		httputils.RenderError(w, "Invalid article id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), api.opts.RequestTimeout)
	defer cancel()

	article, err := api.svc.Article(ctx, id)
	if err != nil {
		if errors.Is(err, usecase.ErrArticleNotFound) {
			httputils.RenderError(w, "Article not found", http.StatusNotFound)
			return
		}
		api.renderUpstreamError(w, r, err)
		return
	}

	httputils.RenderJSON(w, api.view(article, true, api.opts.Now()), http.StatusOK)
}

func (api *Api) view(a domain.Article, withDates bool, now time.Time) articleView {
	v := articleView{Article: a}
	if !withDates {
		return v
	}
	date, err := dateformat.Parse(a.PubDate)
	if err != nil {
		api.log.Warn("Could not format pubDate",
			slog.String("id", a.ID),
			slog.String("pubDate", a.PubDate),
			slog.Any("error", err),
		)
		return v
	}
	v.RelativeDate = dateformat.RelativeTime(date, now)
	v.FullDate = dateformat.FullTime(date)
	return v
}

func (api *Api) renderUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	log := api.log.With(slog.String("request_id", GetRequestID(r.Context())))

	var fetchErr *fetcher.FetchError
	var netErr *fetcher.NetworkError
	switch {
	case errors.As(err, &fetchErr):
		log.Error("Feed endpoint answered with error",
			slog.Int("status_code", fetchErr.StatusCode),
			slog.Any("error", err),
		)
		httputils.RenderError(w, feedLoadFailed, http.StatusBadGateway)
	case errors.Is(err, context.DeadlineExceeded):
		log.Error("Feed request timed out", slog.Any("error", err))
		httputils.RenderError(w, feedLoadFailed, http.StatusGatewayTimeout)
	case errors.As(err, &netErr):
		log.Error("Feed endpoint unreachable", slog.Any("error", err))
		httputils.RenderError(w, feedLoadFailed, http.StatusBadGateway)
	default:
		log.Error("Failed to load articles", slog.Any("error", err))
		httputils.RenderError(w, feedLoadFailed, http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

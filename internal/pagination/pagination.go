package pagination

import "changelogreader/internal/domain"

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Pagination struct {
	TotalResults int              `json:"totalResults"`
	TotalPages   int              `json:"totalPages"`
	CurrentPage  int              `json:"currentPage"`
	PerPage      int              `json:"perPage"`
	Results      []domain.Article `json:"results"`
}

// New slices articles to the requested page. Out of range values are clamped:
// page to [1, TotalPages], perPage to [1, MaxPerPage].
func New(articles []domain.Article, currentPage, perPage int) *Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	total := len(articles)
	totalPages := PageCounter(total, perPage)
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	start := (currentPage - 1) * perPage
	end := min(start+perPage, total)
	results := make([]domain.Article, 0, end-start)
	results = append(results, articles[start:end]...)

	return &Pagination{
		TotalResults: total,
		TotalPages:   totalPages,
		CurrentPage:  currentPage,
		PerPage:      perPage,
		Results:      results,
	}
}

// PageCounter never returns less than one page.
func PageCounter(totalResults, perPage int) int {
	totalPages := totalResults / perPage
	if totalPages*perPage < totalResults {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}
	return totalPages
}

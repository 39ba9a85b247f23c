package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"changelogreader/internal/domain"
)

// The feed is read with tag patterns instead of encoding/xml: items with broken
// markup still yield a record, only the unreadable fields come back empty.
var (
	itemPattern      = regexp.MustCompile(`(?s)<item>(.*?)</item>`)
	authorPattern    = regexp.MustCompile(`(?s)<author>(.*?)</author>`)
	thumbnailPattern = regexp.MustCompile(`<media:thumbnail\s+url="([^"]+)"\s*/?>`)

	tagPatterns   = map[string]*regexp.Regexp{}
	cdataPatterns = map[string]*regexp.Regexp{}
)

func init() {
	for _, tag := range []string{"title", "link", "guid", "pubDate", "description"} {
		quoted := regexp.QuoteMeta(tag)
		tagPatterns[tag] = regexp.MustCompile(`(?s)<` + quoted + `[^>]*>(.*?)</` + quoted + `>`)
		cdataPatterns[tag] = regexp.MustCompile(`(?s)<` + quoted + `[^>]*>\s*<!\[CDATA\[(.*?)\]\]>\s*</` + quoted + `>`)
	}
}

type XMLParser struct {
	log *slog.Logger
}

func New(log *slog.Logger) *XMLParser {
	return &XMLParser{
		log: log,
	}
}

// Parse reads the whole feed document and extracts its articles. It only fails
// when the context is done or the reader breaks; malformed items never abort it.
func (p *XMLParser) Parse(ctx context.Context, reader io.Reader) ([]domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		p.log.Error(
			"Failed to read feed document",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to read feed document: %w", err)
	}
	articles := Parse(string(raw))
	p.log.Debug(
		"Feed document parsed",
		slog.Int("bytes", len(raw)),
		slog.Int("articles", len(articles)),
	)
	return articles, nil
}

// Parse maps a raw RSS document to its articles in document order.
// A document without <item> blocks yields an empty, non-nil slice.
func Parse(xml string) []domain.Article {
	blocks := itemPattern.FindAllStringSubmatch(xml, -1)
	articles := make([]domain.Article, 0, len(blocks))
	for _, m := range blocks {
		articles = append(articles, parseItem(m[1]))
	}
	return articles
}

func parseItem(block string) domain.Article {
	title := extractCDATA(block, "title")
	if title == "" {
		title = extractTag(block, "title")
	}
	description := extractCDATA(block, "description")
	if description == "" {
		description = extractTag(block, "description")
	}
	link := extractTag(block, "link")
	guid := extractTag(block, "guid")

	id := guid
	if id == "" {
		id = link
	}

	return domain.Article{
		ID:          id,
		Title:       title,
		Link:        link,
		Description: description,
		PubDate:     extractTag(block, "pubDate"),
		Authors:     extractAuthors(block),
		Thumbnail:   extractThumbnail(block),
	}
}

func extractTag(block, tag string) string {
	m := tagPatterns[tag].FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func extractCDATA(block, tag string) string {
	m := cdataPatterns[tag].FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// extractAuthors keeps every <author> in order, duplicates included.
func extractAuthors(block string) []string {
	matches := authorPattern.FindAllStringSubmatch(block, -1)
	authors := make([]string, 0, len(matches))
	for _, m := range matches {
		authors = append(authors, strings.TrimSpace(m[1]))
	}
	return authors
}

func extractThumbnail(block string) *string {
	m := thumbnailPattern.FindStringSubmatch(block)
	if m == nil {
		return nil
	}
	url := m[1]
	return &url
}

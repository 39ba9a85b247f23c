package domain

// Article is a single <item> of the changelog feed.
type Article struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	PubDate     string   `json:"pubDate"`
	Authors     []string `json:"authors"`
	Thumbnail   *string  `json:"thumbnail"`
}

// HasThumbnail reports whether the feed provided a media:thumbnail for the item.
func (a Article) HasThumbnail() bool {
	return a.Thumbnail != nil
}

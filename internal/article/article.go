package article

import "time"

// Article is a news item shown on the home screen.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Image       *string   `json:"image"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

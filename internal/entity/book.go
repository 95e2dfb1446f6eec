package entity

import "time"

// Alternative is one edition of a book on the external site. The
// first entry is always the local-language edition the book was
// scraped from; URLs double as a fallback dedup key when the book has
// no moly id.
type Alternative struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Book struct {
	ID           string        `json:"id"`
	MolyID       *string       `json:"moly_id"`
	Title        string        `json:"title"`
	Year         int           `json:"year"`
	Genre        string        `json:"genre"`
	Series       string        `json:"series"`
	SeriesNumber string        `json:"series_number"`
	IsApproved   bool          `json:"is_approved"`
	IsPending    bool          `json:"is_pending"`
	Alternatives []Alternative `json:"alternatives"`
	AuthorIDs    []string      `json:"author_ids"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

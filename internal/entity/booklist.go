package entity

import "time"

// BookList is the configuration for one curated (year, genre) pair:
// the main listing URL on the external site plus an optional pending
// shelf URL.
type BookList struct {
	ID         string    `json:"id"`
	Year       int       `json:"year"`
	Genre      string    `json:"genre"`
	URL        string    `json:"url"`
	PendingURL *string   `json:"pending_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

package moly

import (
	"errors"
	"fmt"
)

var (
	// ErrExtraction marks pages whose required markup is missing; the
	// fetch succeeded, so retrying will not help.
	ErrExtraction = errors.New("extraction failed")
	// ErrFetch marks transport or status failures after retries.
	ErrFetch = errors.New("fetch failed")
)

// ExtractionError describes which extraction step failed on a page.
type ExtractionError struct {
	Op  string
	Msg string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Op, e.Msg)
}

func (e *ExtractionError) Unwrap() error { return ErrExtraction }

// BookRef points at a book's detail page. MolyID is the site's own
// identifier and may be empty when the card carries no data attribute.
type BookRef struct {
	URL    string
	MolyID string
}

// ShelfRef is a BookRef found on a pending shelf, plus the free-text
// annotation a curator left next to it (empty when absent).
type ShelfRef struct {
	BookRef
	Note string
}

// AuthorRef is an author name with the author's profile link, as
// rendered in a book page's author block.
type AuthorRef struct {
	Name string
	URL  string
}

// TitleInfo is the parsed title heading of a book page. Series and
// SeriesNumber are empty when the title carries no series marker.
type TitleInfo struct {
	Title        string
	Series       string
	SeriesNumber string
}

package molysync

import (
	"context"

	"booklist/internal/entity"

	"github.com/PuerkitoBio/goquery"
)

// ScrapedBook is the canonical result of resolving one book's detail
// page. It is rebuilt from scratch on every sync pass and handed to
// the store; it never carries persisted identity.
type ScrapedBook struct {
	MolyID       string
	Title        string
	Year         int
	Genre        string
	Series       string
	SeriesNumber string
	IsPending    bool
	Alternatives []entity.Alternative
	AuthorIDs    []string
}

// PageClient is the slice of the moly client the engine needs.
type PageClient interface {
	GetDocument(ctx context.Context, pathOrURL string) (*goquery.Document, error)
}

// Repositories are consumer-side interfaces; absence is signalled with
// entity.ErrNotFound and lost uniqueness races with entity.ErrConflict.

type BookRepository interface {
	FindByMolyID(ctx context.Context, molyID string) (entity.Book, error)
	FindByAlternativeURL(ctx context.Context, url string) (entity.Book, error)
	Create(ctx context.Context, sb ScrapedBook) (entity.Book, error)
	ReplaceFields(ctx context.Context, id string, sb ScrapedBook) (entity.Book, error)
	SetPending(ctx context.Context, id string, pending bool) (entity.Book, error)
}

type AuthorRepository interface {
	FindByName(ctx context.Context, displayName string) (entity.Author, error)
	Create(ctx context.Context, author entity.Author) (entity.Author, error)
}

type BookListRepository interface {
	GetByYearGenre(ctx context.Context, year int, genre string) (entity.BookList, error)
}

type RunRepository interface {
	CreateRun(ctx context.Context, run *entity.SyncRun) (string, error)
	UpdateRun(ctx context.Context, run *entity.SyncRun) error
}

package molysync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"booklist/internal/entity"
	"booklist/internal/platform/moly"

	"golang.org/x/sync/errgroup"
)

const defaultFetchConcurrency = 5

type Config struct {
	// FetchConcurrency bounds concurrent page and detail fetches.
	FetchConcurrency int
	// ContinueOnBookError skips books whose resolution fails instead
	// of aborting the run. Off by default: a partial listing must not
	// look like a complete one.
	ContinueOnBookError bool
}

// Service reconciles a (year, genre) book list against the external
// site: it scrapes the configured listing and pending shelf, resolves
// every referenced book, and upserts the results without clobbering
// curator-approved records.
type Service struct {
	client  PageClient
	books   BookRepository
	authors AuthorRepository
	lists   BookListRepository
	runs    RunRepository
	cfg     Config
}

func NewService(client PageClient, books BookRepository, authors AuthorRepository, lists BookListRepository, runs RunRepository, cfg Config) *Service {
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = defaultFetchConcurrency
	}
	return &Service{
		client:  client,
		books:   books,
		authors: authors,
		lists:   lists,
		runs:    runs,
		cfg:     cfg,
	}
}

// SyncBookList runs one full pass for (year, genre). A missing
// book-list configuration reports entity.ErrNotFound without recording
// a run; every other failure marks the recorded run FAILED. Books
// already upserted stay upserted: there is no transactional wrapping
// across the run, each upsert is individually idempotent.
func (s *Service) SyncBookList(ctx context.Context, year int, genre string) (err error) {
	list, err := s.lists.GetByYearGenre(ctx, year, genre)
	if err != nil {
		return fmt.Errorf("book list %d/%s: %w", year, genre, err)
	}

	run := &entity.SyncRun{
		Year:      year,
		Genre:     genre,
		Status:    entity.RunStatusRunning,
		StartedAt: time.Now(),
	}
	runID, rErr := s.runs.CreateRun(ctx, run)
	if rErr != nil {
		return rErr
	}
	run.ID = runID

	defer func() {
		now := time.Now()
		run.FinishedAt = &now
		if err != nil {
			run.Status = entity.RunStatusFailed
			run.Error = err.Error()
		} else {
			run.Status = entity.RunStatusCompleted
		}
		if updateErr := s.runs.UpdateRun(ctx, run); updateErr != nil {
			log.Printf("sync: failed to update run %s: %v", run.ID, updateErr)
		}
	}()

	refs, err := fetchAllPages(ctx, s.client, list.URL, s.cfg.FetchConcurrency, moly.ExtractListRefs)
	if err != nil {
		return err
	}
	if err = s.upsertAll(ctx, run, refs, year, genre, false); err != nil {
		return err
	}

	if list.PendingURL == nil || *list.PendingURL == "" {
		return nil
	}

	shelfRefs, shelfErr := fetchAllPages(ctx, s.client, *list.PendingURL, s.cfg.FetchConcurrency, moly.ExtractShelfRefs)
	if shelfErr != nil {
		err = shelfErr
		return err
	}

	// The shelf has no structured genre field; curators encode the
	// genre in the free-text note, so membership is a case-sensitive
	// substring match on the genre's display string.
	var matched []moly.BookRef
	for _, sr := range shelfRefs {
		if strings.Contains(sr.Note, genre) {
			matched = append(matched, sr.BookRef)
		}
	}
	run.PendingMatched = len(matched)

	err = s.upsertAll(ctx, run, matched, year, genre, true)
	return err
}

type upsertResult int

const (
	resultCreated upsertResult = iota
	resultUpdated
	resultUnchanged
)

// upsertAll resolves and upserts every reference under the fetch
// concurrency bound. Order across books is irrelevant: each upsert is
// atomic and keyed by moly id or alternative URL.
func (s *Service) upsertAll(ctx context.Context, run *entity.SyncRun, refs []moly.BookRef, year int, genre string, isPending bool) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FetchConcurrency)
	for _, ref := range refs {
		g.Go(func() error {
			result, authorsCreated, err := s.upsertOne(gctx, ref, year, genre, isPending)
			if err != nil {
				if s.cfg.ContinueOnBookError {
					log.Printf("sync: skipping book %s: %v", ref.URL, err)
					return nil
				}
				return err
			}
			mu.Lock()
			run.AuthorsCreated += authorsCreated
			switch result {
			case resultCreated:
				run.BooksCreated++
			case resultUpdated:
				run.BooksUpdated++
			case resultUnchanged:
				run.BooksUnchanged++
			}
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) upsertOne(ctx context.Context, ref moly.BookRef, year int, genre string, isPending bool) (upsertResult, int, error) {
	sb, authorsCreated, err := s.resolveBook(ctx, ref, year, genre, isPending)
	if err != nil {
		return resultUnchanged, authorsCreated, err
	}

	existing, found, err := s.lookup(ctx, sb)
	if err != nil {
		return resultUnchanged, authorsCreated, err
	}

	if !found {
		if _, err := s.books.Create(ctx, sb); err == nil {
			return resultCreated, authorsCreated, nil
		} else if !errors.Is(err, entity.ErrConflict) {
			return resultUnchanged, authorsCreated, err
		}
		// lost the create race against a concurrent run; the unique
		// index is the safety net, fall back to update
		existing, found, err = s.lookup(ctx, sb)
		if err != nil {
			return resultUnchanged, authorsCreated, err
		}
		if !found {
			return resultUnchanged, authorsCreated, fmt.Errorf("book %s: create conflicted but no record found", ref.URL)
		}
	}

	if existing.IsApproved {
		// Approved records are frozen except for the one-way
		// pending -> not-pending transition.
		if existing.IsPending && !sb.IsPending {
			if _, err := s.books.SetPending(ctx, existing.ID, false); err != nil {
				return resultUnchanged, authorsCreated, err
			}
			return resultUpdated, authorsCreated, nil
		}
		return resultUnchanged, authorsCreated, nil
	}

	if _, err := s.books.ReplaceFields(ctx, existing.ID, sb); err != nil {
		return resultUnchanged, authorsCreated, err
	}
	return resultUpdated, authorsCreated, nil
}

// lookup matches a scraped book against the store: by moly id when
// present, falling back to any alternative-edition URL (covers records
// first created from markup that lacked the id attribute).
func (s *Service) lookup(ctx context.Context, sb ScrapedBook) (entity.Book, bool, error) {
	if sb.MolyID != "" {
		book, err := s.books.FindByMolyID(ctx, sb.MolyID)
		switch {
		case err == nil:
			return book, true, nil
		case !errors.Is(err, entity.ErrNotFound):
			return entity.Book{}, false, err
		}
	}
	for _, alt := range sb.Alternatives {
		book, err := s.books.FindByAlternativeURL(ctx, alt.URL)
		switch {
		case err == nil:
			return book, true, nil
		case !errors.Is(err, entity.ErrNotFound):
			return entity.Book{}, false, err
		}
	}
	return entity.Book{}, false, nil
}

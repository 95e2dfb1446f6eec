package molysync

import (
	"context"
	"fmt"
	"sync"

	"booklist/internal/entity"
)

// In-memory repositories mirroring the Postgres stores' contracts:
// absence is entity.ErrNotFound, lost uniqueness races are
// entity.ErrConflict. All of them are safe for concurrent use because
// upsertAll runs under an errgroup.

type fakeBooks struct {
	mu    sync.Mutex
	seq   int
	books []entity.Book
}

func newFakeBooks() *fakeBooks {
	return &fakeBooks{}
}

func (f *fakeBooks) seed(b entity.Book) entity.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == "" {
		f.seq++
		b.ID = fmt.Sprintf("book-%d", f.seq)
	}
	f.books = append(f.books, b)
	return b
}

func (f *fakeBooks) all() []entity.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Book, len(f.books))
	copy(out, f.books)
	return out
}

func (f *fakeBooks) mustGet(id string) entity.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.ID == id {
			return b
		}
	}
	panic("fakeBooks: unknown id " + id)
}

func (f *fakeBooks) FindByMolyID(_ context.Context, molyID string) (entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.MolyID != nil && *b.MolyID == molyID {
			return b, nil
		}
	}
	return entity.Book{}, entity.ErrNotFound
}

func (f *fakeBooks) FindByAlternativeURL(_ context.Context, url string) (entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		for _, alt := range b.Alternatives {
			if alt.URL == url {
				return b, nil
			}
		}
	}
	return entity.Book{}, entity.ErrNotFound
}

func (f *fakeBooks) Create(_ context.Context, sb ScrapedBook) (entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sb.MolyID != "" {
		for _, b := range f.books {
			if b.MolyID != nil && *b.MolyID == sb.MolyID {
				return entity.Book{}, entity.ErrConflict
			}
		}
	}
	f.seq++
	b := entity.Book{ID: fmt.Sprintf("book-%d", f.seq)}
	applyScraped(&b, sb)
	f.books = append(f.books, b)
	return b, nil
}

func (f *fakeBooks) ReplaceFields(_ context.Context, id string, sb ScrapedBook) (entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.books {
		if f.books[i].ID == id {
			approved := f.books[i].IsApproved
			applyScraped(&f.books[i], sb)
			f.books[i].IsApproved = approved
			return f.books[i], nil
		}
	}
	return entity.Book{}, entity.ErrNotFound
}

func (f *fakeBooks) SetPending(_ context.Context, id string, pending bool) (entity.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.books {
		if f.books[i].ID == id {
			f.books[i].IsPending = pending
			return f.books[i], nil
		}
	}
	return entity.Book{}, entity.ErrNotFound
}

func applyScraped(b *entity.Book, sb ScrapedBook) {
	if sb.MolyID != "" {
		molyID := sb.MolyID
		b.MolyID = &molyID
	}
	b.Title = sb.Title
	b.Year = sb.Year
	b.Genre = sb.Genre
	b.Series = sb.Series
	b.SeriesNumber = sb.SeriesNumber
	b.IsPending = sb.IsPending
	b.Alternatives = sb.Alternatives
	b.AuthorIDs = sb.AuthorIDs
}

type fakeAuthors struct {
	mu     sync.Mutex
	seq    int
	byName map[string]entity.Author
}

func newFakeAuthors() *fakeAuthors {
	return &fakeAuthors{byName: make(map[string]entity.Author)}
}

func (f *fakeAuthors) FindByName(_ context.Context, displayName string) (entity.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byName[displayName]; ok {
		return a, nil
	}
	return entity.Author{}, entity.ErrNotFound
}

func (f *fakeAuthors) Create(_ context.Context, author entity.Author) (entity.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[author.DisplayName]; ok {
		return entity.Author{}, entity.ErrConflict
	}
	f.seq++
	author.ID = fmt.Sprintf("author-%d", f.seq)
	f.byName[author.DisplayName] = author
	return author, nil
}

type fakeLists struct {
	byKey map[string]entity.BookList
}

func newFakeLists() *fakeLists {
	return &fakeLists{byKey: make(map[string]entity.BookList)}
}

func (f *fakeLists) seed(list entity.BookList) {
	f.byKey[fmt.Sprintf("%d/%s", list.Year, list.Genre)] = list
}

func (f *fakeLists) GetByYearGenre(_ context.Context, year int, genre string) (entity.BookList, error) {
	if list, ok := f.byKey[fmt.Sprintf("%d/%s", year, genre)]; ok {
		return list, nil
	}
	return entity.BookList{}, entity.ErrNotFound
}

type fakeRuns struct {
	mu   sync.Mutex
	seq  int
	runs map[string]entity.SyncRun
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{runs: make(map[string]entity.SyncRun)}
}

func (f *fakeRuns) CreateRun(_ context.Context, run *entity.SyncRun) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("run-%d", f.seq)
	stored := *run
	stored.ID = id
	f.runs[id] = stored
	return id, nil
}

func (f *fakeRuns) UpdateRun(_ context.Context, run *entity.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.runs[run.ID]; !ok {
		return entity.ErrNotFound
	}
	f.runs[run.ID] = *run
	return nil
}

func (f *fakeRuns) get(id string) entity.SyncRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[id]
}

func (f *fakeRuns) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

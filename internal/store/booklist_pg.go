package store

import (
	"context"

	"booklist/internal/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookListPG struct {
	db *pgxpool.Pool
}

func NewBookListPG(db *pgxpool.Pool) *BookListPG {
	return &BookListPG{db: db}
}

const bookListColumns = `id, year, genre, url, pending_url, created_at, updated_at`

func scanBookList(row pgx.Row, l *entity.BookList) error {
	return row.Scan(&l.ID, &l.Year, &l.Genre, &l.URL, &l.PendingURL, &l.CreatedAt, &l.UpdatedAt)
}

func (r *BookListPG) List(ctx context.Context) ([]entity.BookList, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookListColumns+` FROM book_lists ORDER BY year DESC, genre`)
	if err != nil {
		return nil, wrapErr("list book lists", err)
	}
	defer rows.Close()

	var lists []entity.BookList
	for rows.Next() {
		var l entity.BookList
		if err := scanBookList(rows, &l); err != nil {
			return nil, wrapErr("list book lists", err)
		}
		lists = append(lists, l)
	}
	return lists, wrapErr("list book lists", rows.Err())
}

func (r *BookListPG) GetByYearGenre(ctx context.Context, year int, genre string) (entity.BookList, error) {
	var l entity.BookList
	row := r.db.QueryRow(ctx, `SELECT `+bookListColumns+` FROM book_lists WHERE year = $1 AND genre = $2`, year, genre)
	if err := scanBookList(row, &l); err != nil {
		return entity.BookList{}, wrapErr("get book list", err)
	}
	return l, nil
}

// Upsert creates or replaces the configuration for a (year, genre)
// pair; PUT semantics for the admin surface.
func (r *BookListPG) Upsert(ctx context.Context, list entity.BookList) (entity.BookList, error) {
	const upsertSQL = `
	INSERT INTO book_lists (year, genre, url, pending_url)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (year, genre) DO UPDATE SET
		url = EXCLUDED.url,
		pending_url = EXCLUDED.pending_url,
		updated_at = now()
	RETURNING ` + bookListColumns

	var l entity.BookList
	row := r.db.QueryRow(ctx, upsertSQL, list.Year, list.Genre, list.URL, list.PendingURL)
	if err := scanBookList(row, &l); err != nil {
		return entity.BookList{}, wrapErr("upsert book list", err)
	}
	return l, nil
}

func (r *BookListPG) Delete(ctx context.Context, year int, genre string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM book_lists WHERE year = $1 AND genre = $2`, year, genre)
	if err != nil {
		return wrapErr("delete book list", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapErr("delete book list", pgx.ErrNoRows)
	}
	return nil
}

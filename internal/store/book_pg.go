package store

// Repository implementation (Postgres)

import (
	"context"

	"booklist/internal/entity"
	"booklist/internal/molysync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookPG struct {
	db *pgxpool.Pool
}

func NewBookPG(db *pgxpool.Pool) *BookPG {
	return &BookPG{db: db}
}

const bookColumns = `id, moly_id, title, year, genre, series, series_number, is_approved, is_pending, created_at, updated_at`

func scanBook(row pgx.Row, b *entity.Book) error {
	return row.Scan(&b.ID, &b.MolyID, &b.Title, &b.Year, &b.Genre, &b.Series, &b.SeriesNumber, &b.IsApproved, &b.IsPending, &b.CreatedAt, &b.UpdatedAt)
}

type ListBooksParams struct {
	Year     int
	Genre    string
	Approved *bool
	Pending  *bool
	Limit    int
	Offset   int
}

func (r *BookPG) List(ctx context.Context, p ListBooksParams) ([]entity.Book, int, error) {
	query := `
	SELECT ` + bookColumns + `
	FROM books
	WHERE ($1 = 0 OR year = $1)
	AND ($2 = '' OR genre = $2)
	AND ($3::boolean IS NULL OR is_approved = $3)
	AND ($4::boolean IS NULL OR is_pending = $4)
	ORDER BY title
	LIMIT $5 OFFSET $6
	`
	rows, err := r.db.Query(ctx, query, p.Year, p.Genre, p.Approved, p.Pending, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, wrapErr("list books", err)
	}
	defer rows.Close()

	var books []entity.Book
	for rows.Next() {
		var b entity.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, 0, wrapErr("list books", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list books", err)
	}

	const countQuery = `
	SELECT count(*) FROM books
	WHERE ($1 = 0 OR year = $1)
	AND ($2 = '' OR genre = $2)
	AND ($3::boolean IS NULL OR is_approved = $3)
	AND ($4::boolean IS NULL OR is_pending = $4)
	`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, p.Year, p.Genre, p.Approved, p.Pending).Scan(&total); err != nil {
		return nil, 0, wrapErr("count books", err)
	}

	for i := range books {
		if err := r.loadRelations(ctx, r.db, &books[i]); err != nil {
			return nil, 0, err
		}
	}
	return books, total, nil
}

func (r *BookPG) GetByID(ctx context.Context, id string) (entity.Book, error) {
	var b entity.Book
	row := r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	if err := scanBook(row, &b); err != nil {
		return entity.Book{}, wrapErr("get book", err)
	}
	if err := r.loadRelations(ctx, r.db, &b); err != nil {
		return entity.Book{}, err
	}
	return b, nil
}

func (r *BookPG) FindByMolyID(ctx context.Context, molyID string) (entity.Book, error) {
	var b entity.Book
	row := r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE moly_id = $1`, molyID)
	if err := scanBook(row, &b); err != nil {
		return entity.Book{}, wrapErr("find book by moly id", err)
	}
	if err := r.loadRelations(ctx, r.db, &b); err != nil {
		return entity.Book{}, err
	}
	return b, nil
}

func (r *BookPG) FindByAlternativeURL(ctx context.Context, url string) (entity.Book, error) {
	query := `
	SELECT ` + bookColumns + `
	FROM books
	WHERE id = (SELECT book_id FROM book_alternatives WHERE url = $1 LIMIT 1)
	`
	var b entity.Book
	if err := scanBook(r.db.QueryRow(ctx, query, url), &b); err != nil {
		return entity.Book{}, wrapErr("find book by alternative url", err)
	}
	if err := r.loadRelations(ctx, r.db, &b); err != nil {
		return entity.Book{}, err
	}
	return b, nil
}

// Create inserts an unapproved book from scraped data. A concurrent
// sync inserting the same moly id surfaces as entity.ErrConflict via
// the partial unique index on moly_id.
func (r *BookPG) Create(ctx context.Context, sb molysync.ScrapedBook) (entity.Book, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return entity.Book{}, wrapErr("create book", err)
	}
	defer tx.Rollback(ctx)

	const insertSQL = `
	INSERT INTO books (moly_id, title, year, genre, series, series_number, is_approved, is_pending)
	VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, false, $7)
	RETURNING ` + bookColumns

	var b entity.Book
	row := tx.QueryRow(ctx, insertSQL, sb.MolyID, sb.Title, sb.Year, sb.Genre, sb.Series, sb.SeriesNumber, sb.IsPending)
	if err := scanBook(row, &b); err != nil {
		return entity.Book{}, wrapErr("create book", err)
	}

	if err := insertBookRelations(ctx, tx, b.ID, sb); err != nil {
		return entity.Book{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return entity.Book{}, wrapErr("create book", err)
	}
	b.Alternatives = sb.Alternatives
	b.AuthorIDs = sb.AuthorIDs
	return b, nil
}

// ReplaceFields overwrites every scraped field of an unapproved book
// with fresh data; alternatives and author links are replaced
// wholesale. The moly id is only ever filled in, never cleared.
func (r *BookPG) ReplaceFields(ctx context.Context, id string, sb molysync.ScrapedBook) (entity.Book, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return entity.Book{}, wrapErr("replace book fields", err)
	}
	defer tx.Rollback(ctx)

	const updateSQL = `
	UPDATE books
	SET moly_id = COALESCE(NULLIF($2, ''), moly_id),
		title = $3,
		genre = $4,
		series = $5,
		series_number = $6,
		is_pending = $7,
		updated_at = now()
	WHERE id = $1
	RETURNING ` + bookColumns

	var b entity.Book
	row := tx.QueryRow(ctx, updateSQL, id, sb.MolyID, sb.Title, sb.Genre, sb.Series, sb.SeriesNumber, sb.IsPending)
	if err := scanBook(row, &b); err != nil {
		return entity.Book{}, wrapErr("replace book fields", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM book_alternatives WHERE book_id = $1`, id); err != nil {
		return entity.Book{}, wrapErr("replace book alternatives", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, id); err != nil {
		return entity.Book{}, wrapErr("replace book authors", err)
	}
	if err := insertBookRelations(ctx, tx, id, sb); err != nil {
		return entity.Book{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return entity.Book{}, wrapErr("replace book fields", err)
	}
	b.Alternatives = sb.Alternatives
	b.AuthorIDs = sb.AuthorIDs
	return b, nil
}

func (r *BookPG) SetPending(ctx context.Context, id string, pending bool) (entity.Book, error) {
	var b entity.Book
	row := r.db.QueryRow(ctx, `UPDATE books SET is_pending = $2, updated_at = now() WHERE id = $1 RETURNING `+bookColumns, id, pending)
	if err := scanBook(row, &b); err != nil {
		return entity.Book{}, wrapErr("set book pending", err)
	}
	if err := r.loadRelations(ctx, r.db, &b); err != nil {
		return entity.Book{}, err
	}
	return b, nil
}

func (r *BookPG) SetApproved(ctx context.Context, id string, approved bool) (entity.Book, error) {
	var b entity.Book
	row := r.db.QueryRow(ctx, `UPDATE books SET is_approved = $2, updated_at = now() WHERE id = $1 RETURNING `+bookColumns, id, approved)
	if err := scanBook(row, &b); err != nil {
		return entity.Book{}, wrapErr("set book approved", err)
	}
	if err := r.loadRelations(ctx, r.db, &b); err != nil {
		return entity.Book{}, err
	}
	return b, nil
}

// BookUpdate carries curator edits; nil fields are left untouched.
type BookUpdate struct {
	Title        *string
	Genre        *string
	Series       *string
	SeriesNumber *string
	IsApproved   *bool
	IsPending    *bool
}

func (r *BookPG) Update(ctx context.Context, id string, upd BookUpdate) (entity.Book, error) {
	const updateSQL = `
	UPDATE books
	SET title = COALESCE($2, title),
		genre = COALESCE($3, genre),
		series = COALESCE($4, series),
		series_number = COALESCE($5, series_number),
		is_approved = COALESCE($6, is_approved),
		is_pending = COALESCE($7, is_pending),
		updated_at = now()
	WHERE id = $1
	RETURNING ` + bookColumns

	var b entity.Book
	row := r.db.QueryRow(ctx, updateSQL, id, upd.Title, upd.Genre, upd.Series, upd.SeriesNumber, upd.IsApproved, upd.IsPending)
	if err := scanBook(row, &b); err != nil {
		return entity.Book{}, wrapErr("update book", err)
	}
	if err := r.loadRelations(ctx, r.db, &b); err != nil {
		return entity.Book{}, err
	}
	return b, nil
}

func (r *BookPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete book", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapErr("delete book", pgx.ErrNoRows)
	}
	return nil
}

func insertBookRelations(ctx context.Context, tx pgx.Tx, bookID string, sb molysync.ScrapedBook) error {
	for _, alt := range sb.Alternatives {
		if _, err := tx.Exec(ctx, `INSERT INTO book_alternatives (book_id, name, url) VALUES ($1, $2, $3)`, bookID, alt.Name, alt.URL); err != nil {
			return wrapErr("insert book alternative", err)
		}
	}
	for i, authorID := range sb.AuthorIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO book_authors (book_id, author_id, position) VALUES ($1, $2, $3)`, bookID, authorID, i); err != nil {
			return wrapErr("insert book author", err)
		}
	}
	return nil
}

func (r *BookPG) loadRelations(ctx context.Context, db *pgxpool.Pool, b *entity.Book) error {
	rows, err := db.Query(ctx, `SELECT name, url FROM book_alternatives WHERE book_id = $1 ORDER BY id`, b.ID)
	if err != nil {
		return wrapErr("load book alternatives", err)
	}
	defer rows.Close()
	for rows.Next() {
		var alt entity.Alternative
		if err := rows.Scan(&alt.Name, &alt.URL); err != nil {
			return wrapErr("load book alternatives", err)
		}
		b.Alternatives = append(b.Alternatives, alt)
	}
	if err := rows.Err(); err != nil {
		return wrapErr("load book alternatives", err)
	}

	authorRows, err := db.Query(ctx, `SELECT author_id FROM book_authors WHERE book_id = $1 ORDER BY position`, b.ID)
	if err != nil {
		return wrapErr("load book authors", err)
	}
	defer authorRows.Close()
	for authorRows.Next() {
		var authorID string
		if err := authorRows.Scan(&authorID); err != nil {
			return wrapErr("load book authors", err)
		}
		b.AuthorIDs = append(b.AuthorIDs, authorID)
	}
	return wrapErr("load book authors", authorRows.Err())
}

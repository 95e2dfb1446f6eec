package store

import (
	"context"

	"booklist/internal/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuthorPG struct {
	db *pgxpool.Pool
}

func NewAuthorPG(db *pgxpool.Pool) *AuthorPG {
	return &AuthorPG{db: db}
}

const authorColumns = `id, display_name, sort_name, url, is_approved, created_at, updated_at`

func scanAuthor(row pgx.Row, a *entity.Author) error {
	return row.Scan(&a.ID, &a.DisplayName, &a.SortName, &a.URL, &a.IsApproved, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AuthorPG) List(ctx context.Context, limit, offset int) ([]entity.Author, int, error) {
	rows, err := r.db.Query(ctx, `SELECT `+authorColumns+` FROM authors ORDER BY sort_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, wrapErr("list authors", err)
	}
	defer rows.Close()

	var authors []entity.Author
	for rows.Next() {
		var a entity.Author
		if err := scanAuthor(rows, &a); err != nil {
			return nil, 0, wrapErr("list authors", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list authors", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM authors`).Scan(&total); err != nil {
		return nil, 0, wrapErr("count authors", err)
	}
	return authors, total, nil
}

func (r *AuthorPG) GetByID(ctx context.Context, id string) (entity.Author, error) {
	var a entity.Author
	if err := scanAuthor(r.db.QueryRow(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id), &a); err != nil {
		return entity.Author{}, wrapErr("get author", err)
	}
	return a, nil
}

func (r *AuthorPG) FindByName(ctx context.Context, displayName string) (entity.Author, error) {
	var a entity.Author
	if err := scanAuthor(r.db.QueryRow(ctx, `SELECT `+authorColumns+` FROM authors WHERE display_name = $1`, displayName), &a); err != nil {
		return entity.Author{}, wrapErr("find author by name", err)
	}
	return a, nil
}

// Create relies on the display_name unique constraint: two concurrent
// resolutions of the same new author surface entity.ErrConflict for
// the loser, which re-reads instead of failing.
func (r *AuthorPG) Create(ctx context.Context, author entity.Author) (entity.Author, error) {
	const insertSQL = `
	INSERT INTO authors (display_name, sort_name, url, is_approved)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + authorColumns

	var a entity.Author
	row := r.db.QueryRow(ctx, insertSQL, author.DisplayName, author.SortName, author.URL, author.IsApproved)
	if err := scanAuthor(row, &a); err != nil {
		return entity.Author{}, wrapErr("create author", err)
	}
	return a, nil
}

// AuthorUpdate carries curator edits; nil fields are left untouched.
type AuthorUpdate struct {
	DisplayName *string
	SortName    *string
	URL         *string
	IsApproved  *bool
}

func (r *AuthorPG) Update(ctx context.Context, id string, upd AuthorUpdate) (entity.Author, error) {
	const updateSQL = `
	UPDATE authors
	SET display_name = COALESCE($2, display_name),
		sort_name = COALESCE($3, sort_name),
		url = COALESCE($4, url),
		is_approved = COALESCE($5, is_approved),
		updated_at = now()
	WHERE id = $1
	RETURNING ` + authorColumns

	var a entity.Author
	row := r.db.QueryRow(ctx, updateSQL, id, upd.DisplayName, upd.SortName, upd.URL, upd.IsApproved)
	if err := scanAuthor(row, &a); err != nil {
		return entity.Author{}, wrapErr("update author", err)
	}
	return a, nil
}

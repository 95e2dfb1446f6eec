package store

import (
	"context"

	"booklist/internal/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SyncRunPG struct {
	db *pgxpool.Pool
}

func NewSyncRunPG(db *pgxpool.Pool) *SyncRunPG {
	return &SyncRunPG{db: db}
}

func (r *SyncRunPG) CreateRun(ctx context.Context, run *entity.SyncRun) (string, error) {
	const insertSQL = `
	INSERT INTO sync_runs (year, genre, status, started_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`
	var id string
	if err := r.db.QueryRow(ctx, insertSQL, run.Year, run.Genre, run.Status, run.StartedAt).Scan(&id); err != nil {
		return "", wrapErr("create sync run", err)
	}
	return id, nil
}

func (r *SyncRunPG) UpdateRun(ctx context.Context, run *entity.SyncRun) error {
	const updateSQL = `
	UPDATE sync_runs
	SET status = $2,
		books_created = $3,
		books_updated = $4,
		books_unchanged = $5,
		pending_matched = $6,
		authors_created = $7,
		error = $8,
		finished_at = $9
	WHERE id = $1
	`
	_, err := r.db.Exec(ctx, updateSQL, run.ID, run.Status, run.BooksCreated, run.BooksUpdated,
		run.BooksUnchanged, run.PendingMatched, run.AuthorsCreated, run.Error, run.FinishedAt)
	return wrapErr("update sync run", err)
}

func (r *SyncRunPG) ListRecent(ctx context.Context, limit int) ([]entity.SyncRun, error) {
	const listSQL = `
	SELECT id, year, genre, status, books_created, books_updated, books_unchanged,
		pending_matched, authors_created, error, started_at, finished_at
	FROM sync_runs
	ORDER BY started_at DESC
	LIMIT $1
	`
	rows, err := r.db.Query(ctx, listSQL, limit)
	if err != nil {
		return nil, wrapErr("list sync runs", err)
	}
	defer rows.Close()

	var runs []entity.SyncRun
	for rows.Next() {
		var run entity.SyncRun
		if err := rows.Scan(&run.ID, &run.Year, &run.Genre, &run.Status, &run.BooksCreated,
			&run.BooksUpdated, &run.BooksUnchanged, &run.PendingMatched, &run.AuthorsCreated,
			&run.Error, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, wrapErr("list sync runs", err)
		}
		runs = append(runs, run)
	}
	return runs, wrapErr("list sync runs", rows.Err())
}

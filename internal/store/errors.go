package store

import (
	"errors"
	"fmt"

	"booklist/internal/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// wrapErr maps driver-level failures onto the entity sentinels the
// rest of the app matches on.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s (%s): %w", op, pgErr.ConstraintName, entity.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

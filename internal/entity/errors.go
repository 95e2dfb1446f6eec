package entity

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when an insert loses a uniqueness race.
	ErrConflict = errors.New("conflict")
)

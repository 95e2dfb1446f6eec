package entity

import "time"

const (
	RunStatusRunning   = "RUNNING"
	RunStatusCompleted = "COMPLETED"
	RunStatusFailed    = "FAILED"
)

// SyncRun records one pass of the external-site synchronization for a
// (year, genre) pair.
type SyncRun struct {
	ID             string     `json:"id"`
	Year           int        `json:"year"`
	Genre          string     `json:"genre"`
	Status         string     `json:"status"`
	BooksCreated   int        `json:"books_created"`
	BooksUpdated   int        `json:"books_updated"`
	BooksUnchanged int        `json:"books_unchanged"`
	PendingMatched int        `json:"pending_matched"`
	AuthorsCreated int        `json:"authors_created"`
	Error          string     `json:"error,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"booklist/internal/entity"
	"booklist/internal/httpx"
	"booklist/internal/platform/moly"
)

type Syncer interface {
	SyncBookList(ctx context.Context, year int, genre string) error
}

type SyncRunStore interface {
	ListRecent(ctx context.Context, limit int) ([]entity.SyncRun, error)
}

type SyncHandler struct {
	syncer Syncer
	runs   SyncRunStore
}

func NewSyncHandler(syncer Syncer, runs SyncRunStore) *SyncHandler {
	return &SyncHandler{syncer: syncer, runs: runs}
}

type syncRequest struct {
	Year  int    `json:"year" validate:"required,gte=1900,lte=2100"`
	Genre string `json:"genre" validate:"required,genre"`
}

// UpdateFromMoly handles POST /books/update-from-moly. The call blocks
// for the duration of the sync pass; callers wanting a timeout wrap
// the request context.
func (h *SyncHandler) UpdateFromMoly(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if errs := ValidateStruct(req); errs != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", detailsFrom(errs))
		return
	}

	err := h.syncer.SyncBookList(r.Context(), req.Year, req.Genre)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No book list configured for this year and genre", nil)
		case errors.Is(err, moly.ErrFetch), errors.Is(err, moly.ErrExtraction):
			// Books upserted before the failure stay upserted; the run
			// is recorded as FAILED.
			httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error(), nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		}
		return
	}

	httpx.JSONSuccess(w, r, map[string]string{"status": "completed"}, nil)
}

// ListRuns handles GET /sync-runs
func (h *SyncHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	runs, err := h.runs.ListRecent(r.Context(), limit)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, runs, nil)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"booklist/internal/entity"
	"booklist/internal/httpx"
)

type BookListStore interface {
	List(ctx context.Context) ([]entity.BookList, error)
	Upsert(ctx context.Context, list entity.BookList) (entity.BookList, error)
	Delete(ctx context.Context, year int, genre string) error
}

type BookListHandler struct {
	lists BookListStore
}

func NewBookListHandler(lists BookListStore) *BookListHandler {
	return &BookListHandler{lists: lists}
}

// List handles GET /book-lists
func (h *BookListHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.List(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, lists, nil)
}

// List URLs are site-relative paths ("/lists/2026-fantasy"), so the
// uri rule applies rather than url, which demands a scheme.
type putBookListRequest struct {
	URL        string  `json:"url" validate:"required,uri"`
	PendingURL *string `json:"pending_url" validate:"omitempty,uri"`
}

// Put handles PUT /book-lists/{year}/{genre}
func (h *BookListHandler) Put(w http.ResponseWriter, r *http.Request) {
	year, genre, ok := yearGenreFromPath(w, r)
	if !ok {
		return
	}

	var req putBookListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if errs := ValidateStruct(req); errs != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", detailsFrom(errs))
		return
	}

	list, err := h.lists.Upsert(r.Context(), entity.BookList{
		Year:       year,
		Genre:      genre,
		URL:        req.URL,
		PendingURL: req.PendingURL,
	})
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, list, nil)
}

// Delete handles DELETE /book-lists/{year}/{genre}
func (h *BookListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	year, genre, ok := yearGenreFromPath(w, r)
	if !ok {
		return
	}

	if err := h.lists.Delete(r.Context(), year, genre); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book list not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func yearGenreFromPath(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1900 || year > 2100 {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid year", nil)
		return 0, "", false
	}
	genre := r.PathValue("genre")
	if genre == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Genre is required", nil)
		return 0, "", false
	}
	return year, genre, true
}

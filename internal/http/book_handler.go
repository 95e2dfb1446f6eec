package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"booklist/internal/entity"
	"booklist/internal/httpx"
	"booklist/internal/molysync"
	"booklist/internal/store"
)

type BookStore interface {
	List(ctx context.Context, p store.ListBooksParams) ([]entity.Book, int, error)
	GetByID(ctx context.Context, id string) (entity.Book, error)
	Create(ctx context.Context, sb molysync.ScrapedBook) (entity.Book, error)
	Update(ctx context.Context, id string, upd store.BookUpdate) (entity.Book, error)
	SetApproved(ctx context.Context, id string, approved bool) (entity.Book, error)
	Delete(ctx context.Context, id string) error
}

type BookHandler struct {
	books BookStore
}

func NewBookHandler(books BookStore) *BookHandler {
	return &BookHandler{books: books}
}

func detailsFrom(errs []ValidationError) []httpx.ErrorDetail {
	details := make([]httpx.ErrorDetail, len(errs))
	for i, e := range errs {
		details[i] = httpx.ErrorDetail{Field: e.Field, Message: e.Message}
	}
	return details
}

// List handles GET /books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := store.ListBooksParams{
		Genre: query.Get("genre"),
	}
	params.Year, _ = strconv.Atoi(query.Get("year"))
	if v := query.Get("approved"); v != "" {
		approved := v == "true"
		params.Approved = &approved
	}
	if v := query.Get("pending"); v != "" {
		pending := v == "true"
		params.Pending = &pending
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	books, total, err := h.books.List(r.Context(), params)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]interface{}{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// Get handles GET /books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, book, nil)
}

type createBookRequest struct {
	Title        string `json:"title" validate:"required,min=1,max=500"`
	Year         int    `json:"year" validate:"required,gte=1900,lte=2100"`
	Genre        string `json:"genre" validate:"required,genre"`
	MolyID       string `json:"moly_id"`
	Series       string `json:"series"`
	SeriesNumber string `json:"series_number"`
}

// Create handles POST /books (manual creation by a curator; books
// normally arrive through the sync engine).
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if errs := ValidateStruct(req); errs != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", detailsFrom(errs))
		return
	}

	book, err := h.books.Create(r.Context(), molysync.ScrapedBook{
		MolyID:       req.MolyID,
		Title:        req.Title,
		Year:         req.Year,
		Genre:        req.Genre,
		Series:       req.Series,
		SeriesNumber: req.SeriesNumber,
	})
	if err != nil {
		if errors.Is(err, entity.ErrConflict) {
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "A book with this moly id already exists", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessCreated(w, r, book)
}

type updateBookRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=1,max=500"`
	Genre        *string `json:"genre" validate:"omitempty,genre"`
	Series       *string `json:"series"`
	SeriesNumber *string `json:"series_number"`
	IsApproved   *bool   `json:"is_approved"`
	IsPending    *bool   `json:"is_pending"`
}

// Update handles PATCH /books/{id}
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if errs := ValidateStruct(req); errs != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", detailsFrom(errs))
		return
	}

	book, err := h.books.Update(r.Context(), r.PathValue("id"), store.BookUpdate{
		Title:        req.Title,
		Genre:        req.Genre,
		Series:       req.Series,
		SeriesNumber: req.SeriesNumber,
		IsApproved:   req.IsApproved,
		IsPending:    req.IsPending,
	})
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, book, nil)
}

// Approve handles POST /books/{id}/approve. Approval freezes scraped
// fields against future sync passes.
func (h *BookHandler) Approve(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.SetApproved(r.Context(), r.PathValue("id"), true)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, book, nil)
}

// Delete handles DELETE /books/{id}
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.books.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

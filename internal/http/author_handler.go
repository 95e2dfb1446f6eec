package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"booklist/internal/entity"
	"booklist/internal/httpx"
	"booklist/internal/store"
)

type AuthorStore interface {
	List(ctx context.Context, limit, offset int) ([]entity.Author, int, error)
	GetByID(ctx context.Context, id string) (entity.Author, error)
	Update(ctx context.Context, id string, upd store.AuthorUpdate) (entity.Author, error)
}

type AuthorHandler struct {
	authors AuthorStore
}

func NewAuthorHandler(authors AuthorStore) *AuthorHandler {
	return &AuthorHandler{authors: authors}
}

// List handles GET /authors
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	authors, total, err := h.authors.List(r.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, authors, map[string]interface{}{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// Get handles GET /authors/{id}
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	author, err := h.authors.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Author not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, author, nil)
}

type updateAuthorRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=200"`
	SortName    *string `json:"sort_name" validate:"omitempty,min=1,max=200"`
	URL         *string `json:"url" validate:"omitempty,uri"`
	IsApproved  *bool   `json:"is_approved"`
}

// Update handles PATCH /authors/{id}
func (h *AuthorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateAuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body", nil)
		return
	}
	if errs := ValidateStruct(req); errs != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", detailsFrom(errs))
		return
	}

	author, err := h.authors.Update(r.Context(), r.PathValue("id"), store.AuthorUpdate{
		DisplayName: req.DisplayName,
		SortName:    req.SortName,
		URL:         req.URL,
		IsApproved:  req.IsApproved,
	})
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Author not found", nil)
		case errors.Is(err, entity.ErrConflict):
			httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "An author with this name already exists", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccess(w, r, author, nil)
}

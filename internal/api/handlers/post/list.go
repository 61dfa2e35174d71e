package post

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Postify/internal/api/handlers"
	"Postify/internal/core/posts"
)

// ListHandler serves the paginated feed and per-author listings
type ListHandler struct {
	service posts.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service posts.Service) *ListHandler {
	return &ListHandler{
		service: service,
	}
}

type paginationResponse struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	HasMore     bool `json:"hasMore"`
}

type feedResponse struct {
	Data       []*posts.PostView  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
	Success    bool               `json:"success"`
}

type authorPostsResponse struct {
	Data    []*posts.PostView `json:"data"`
	Count   int               `json:"count"`
	Success bool              `json:"success"`
}

// HandleFeed handles GET /api/posts?page=&limit=
func (h *ListHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	page, err := parseIntQuery(r, "page", posts.DefaultPage)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "page must be a positive integer")
		return
	}
	limit, err := parseIntQuery(r, "limit", posts.DefaultPageSize)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "limit must be a positive integer")
		return
	}

	feed, err := h.service.GetFeed(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, err, "view posts")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, feedResponse{
		Success: true,
		Data:    feed.Items,
		Pagination: paginationResponse{
			CurrentPage: feed.CurrentPage,
			TotalPages:  feed.TotalPages,
			TotalPosts:  feed.TotalCount,
			HasMore:     feed.HasMore,
		},
	})
}

// HandleUserPosts handles GET /api/posts/user/{userId}
func (h *ListHandler) HandleUserPosts(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetAuthorPosts(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, err, "view posts")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, authorPostsResponse{
		Success: true,
		Count:   len(result),
		Data:    result,
	})
}

// parseIntQuery reads an optional integer query parameter.
// Range checks beyond parseability belong to the service.
func parseIntQuery(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

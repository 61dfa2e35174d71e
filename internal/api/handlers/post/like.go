package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Postify/internal/core/posts"
)

// LikeHandler toggles the caller's like on a post
type LikeHandler struct {
	service posts.Service
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(service posts.Service) *LikeHandler {
	return &LikeHandler{
		service: service,
	}
}

// HandleToggleLike handles PUT /api/posts/{id}/like
// A second call by the same user removes the like.
func (h *LikeHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.ToggleLike(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err, "like this post")
		return
	}

	writeData(w, http.StatusOK, post)
}

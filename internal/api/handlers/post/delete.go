package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Postify/internal/core/posts"
)

// DeleteHandler handles post deletion
type DeleteHandler struct {
	service posts.Service
}

// NewDeleteHandler creates a new delete handler
func NewDeleteHandler(service posts.Service) *DeleteHandler {
	return &DeleteHandler{
		service: service,
	}
}

// HandleDelete handles DELETE /api/posts/{id}
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeletePost(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err, "delete this post")
		return
	}

	writeData(w, http.StatusOK, struct{}{})
}

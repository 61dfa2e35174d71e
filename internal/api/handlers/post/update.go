package post

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Postify/internal/core/posts"
)

// UpdateHandler handles post edits
type UpdateHandler struct {
	service posts.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service posts.Service) *UpdateHandler {
	return &UpdateHandler{
		service: service,
	}
}

// HandleUpdate handles PUT /api/posts/{id}
//
// Request body: { "content": "...", "imageUrl": "..." }
// Omitting imageUrl keeps the current image; an empty string removes it.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req posts.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}

	post, err := h.service.UpdatePost(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, err, "update this post")
		return
	}

	writeData(w, http.StatusOK, post)
}

package post

import (
	"encoding/json"
	"net/http"

	"Postify/internal/core/posts"
)

// CreateHandler handles post creation requests
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{
		service: service,
	}
}

// HandleCreate handles POST /api/posts
//
// Request body: { "content": "...", "imageUrl": "..." }
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req posts.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}

	// Author always comes from the token, never the body
	post, err := h.service.CreatePost(r.Context(), actorFromRequest(r), req)
	if err != nil {
		handleServiceError(w, err, "create posts")
		return
	}

	writeData(w, http.StatusCreated, post)
}

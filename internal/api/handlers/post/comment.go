package post

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Postify/internal/core/posts"
)

// CommentHandler handles adding and removing comments
type CommentHandler struct {
	service posts.Service
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(service posts.Service) *CommentHandler {
	return &CommentHandler{
		service: service,
	}
}

// HandleAddComment handles POST /api/posts/{id}/comment
//
// Request body: { "content": "..." }
func (h *CommentHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req posts.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}

	post, err := h.service.AddComment(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, err, "comment on this post")
		return
	}

	writeData(w, http.StatusOK, post)
}

// HandleDeleteComment handles DELETE /api/posts/{id}/comment/{commentId}
func (h *CommentHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.DeleteComment(r.Context(), actorFromRequest(r),
		chi.URLParam(r, "id"), chi.URLParam(r, "commentId"))
	if err != nil {
		handleServiceError(w, err, "delete this comment")
		return
	}

	writeData(w, http.StatusOK, post)
}

package post

import (
	"errors"
	"log"
	"net/http"

	"Postify/internal/api/handlers"
	"Postify/internal/api/middleware"
	"Postify/internal/core/posts"
)

// maxBodyBytes bounds request bodies; 5000 characters of content fit comfortably
const maxBodyBytes = 1 * 1024 * 1024

// handleServiceError maps service errors to HTTP responses.
// action completes the 403 message, e.g. "update this post".
func handleServiceError(w http.ResponseWriter, err error, action string) {
	var valErr *posts.ValidationError

	switch {
	case errors.As(err, &valErr):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", valErr.Message)

	case errors.Is(err, posts.ErrCommentNotFound):
		handlers.WriteError(w, http.StatusNotFound, "CommentNotFound", "Comment not found")

	case errors.Is(err, posts.ErrNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "Post not found")

	case errors.Is(err, posts.ErrForbidden):
		handlers.WriteError(w, http.StatusForbidden, "NotAuthorized", "Not authorized to "+action)

	case errors.Is(err, posts.ErrAuthRequired):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")

	default:
		// Don't leak internal error details to clients
		log.Printf("Unexpected error in post handler: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}

// actorFromRequest builds the engine actor from the auth middleware context
func actorFromRequest(r *http.Request) posts.Actor {
	return posts.Actor{
		ID:   middleware.GetUserID(r),
		Role: middleware.GetUserRole(r),
	}
}

// writeDecodeError reports a body that could not be parsed
func writeDecodeError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		handlers.WriteError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
			"Request body too large (max 1MB)")
		return
	}
	handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
}

type dataResponse struct {
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	handlers.WriteJSON(w, status, dataResponse{Success: true, Data: data})
}

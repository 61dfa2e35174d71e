package routes

import (
	"github.com/go-chi/chi/v5"

	"Postify/internal/api/handlers/post"
	"Postify/internal/api/middleware"
	"Postify/internal/core/posts"
)

// RegisterPostRoutes mounts the /api/posts endpoints. Every route requires
// an authenticated user.
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware middleware.AuthMiddleware) {
	listHandler := post.NewListHandler(service)
	getHandler := post.NewGetHandler(service)
	createHandler := post.NewCreateHandler(service)
	updateHandler := post.NewUpdateHandler(service)
	deleteHandler := post.NewDeleteHandler(service)
	likeHandler := post.NewLikeHandler(service)
	commentHandler := post.NewCommentHandler(service)

	r.Route("/api/posts", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Get("/", listHandler.HandleFeed)
		r.Post("/", createHandler.HandleCreate)

		// Registered before /{id} so "user" is never taken as a post ID
		r.Get("/user/{userId}", listHandler.HandleUserPosts)

		r.Get("/{id}", getHandler.HandleGet)
		r.Put("/{id}", updateHandler.HandleUpdate)
		r.Delete("/{id}", deleteHandler.HandleDelete)

		r.Put("/{id}/like", likeHandler.HandleToggleLike)

		r.Post("/{id}/comment", commentHandler.HandleAddComment)
		r.Delete("/{id}/comment/{commentId}", commentHandler.HandleDeleteComment)
	})
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Postify/internal/api/handlers"
)

// RegisterSystemRoutes mounts the API banner, the health check and the JSON
// fallback for unknown routes
func RegisterSystemRoutes(r chi.Router, version string) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Postify API",
			"version": version,
			"endpoints": map[string]string{
				"posts": "/api/posts",
			},
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "Route not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", "Method not allowed")
	})
}

package routes

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSMiddleware allows the browser client origins to call the API with credentials.
// Requests without an Origin header (curl, mobile apps) are not affected.
func CORSMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

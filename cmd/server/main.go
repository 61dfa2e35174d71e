package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"Postify/internal/api/middleware"
	"Postify/internal/api/routes"
	"Postify/internal/config"
	"Postify/internal/core/posts"
	"Postify/internal/core/users"
	"Postify/internal/db"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	defer stores.Close()

	if cfg.StoreBackend == config.BackendMemory {
		log.Println("Using in-memory store; data is lost on restart")
	}

	if cfg.SeedUsersFile != "" {
		if err := seedUsers(ctx, stores.Users, cfg.SeedUsersFile); err != nil {
			log.Fatal("Failed to seed users:", err)
		}
	}

	postService := posts.NewPostService(stores.Posts, logger)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(routes.CORSMiddleware(cfg.AllowedOrigins))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	defer rateLimiter.Stop()
	r.Use(rateLimiter.Middleware)

	authMiddleware := middleware.NewJWTAuthMiddleware(cfg.JWTSecret)

	routes.RegisterPostRoutes(r, postService, authMiddleware)
	routes.RegisterSystemRoutes(r, version)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		fmt.Printf("Postify API starting on port %s (env=%s, store=%s)\n", cfg.Port, cfg.Env, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func seedUsers(ctx context.Context, repo users.Repository, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	created, err := users.Seed(ctx, repo, f)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d users from %s", created, path)
	return nil
}

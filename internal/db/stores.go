// Package db opens the configured storage backend.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"Postify/internal/config"
	"Postify/internal/core/posts"
	"Postify/internal/core/users"
	"Postify/internal/db/memory"
	"Postify/internal/db/migrations"
	"Postify/internal/db/mongodb"
	"Postify/internal/db/postgres"
)

// Stores bundles the repositories of one backend
type Stores struct {
	Posts posts.Repository
	Users users.Repository
	close func()
}

// Close releases the backend connection
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects the backend named by cfg.StoreBackend. Postgres gets its
// migrations applied and Mongo its indexes created before returning.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return openPostgres(ctx, cfg.DatabaseURL)
	case config.BackendMongo:
		return openMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.BackendMemory:
		userStore := memory.NewUserStore()
		return &Stores{
			Posts: memory.NewPostStore(userStore),
			Users: userStore,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func openPostgres(ctx context.Context, dsn string) (*Stores, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("Connected to PostgreSQL")

	if err := migrations.Up(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Println("Migrations completed successfully")

	return &Stores{
		Posts: postgres.NewPostRepository(conn),
		Users: postgres.NewUserRepository(conn),
		close: func() { _ = conn.Close() },
	}, nil
}

func openMongo(ctx context.Context, uri, database string) (*Stores, error) {
	client, mdb, err := mongodb.Connect(ctx, uri, database)
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, mdb); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Stores{
		Posts: mongodb.NewPostStore(mdb),
		Users: mongodb.NewUserStore(mdb),
		close: func() { _ = client.Disconnect(context.Background()) },
	}, nil
}

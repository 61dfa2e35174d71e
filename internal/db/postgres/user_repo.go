package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"Postify/internal/core/users"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// postgresUserRepo runs on the pool or, when populating inside a read
// transaction, on that transaction
type postgresUserRepo struct {
	db querier
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.Repository {
	return &postgresUserRepo{db: db}
}

// Create inserts a new user into the users table
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	role := user.Role
	if role == "" {
		role = users.RoleUser
	}

	query := `
		INSERT INTO users (id, name, email, role)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING id, name, COALESCE(email, ''), role, created_at`

	created := &users.User{}
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Name, user.Email, string(role)).
		Scan(&created.ID, &created.Name, &created.Email, &created.Role, &created.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, users.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByIDs resolves a batch of users in one query
func (r *postgresUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*users.User, error) {
	result := make(map[string]*users.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT id, name, COALESCE(email, ''), role, created_at FROM users WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		user := &users.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return result, nil
}

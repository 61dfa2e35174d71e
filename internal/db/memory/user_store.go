package memory

import (
	"context"
	"sync"
	"time"

	"Postify/internal/core/users"
)

// UserStore is an in-process users collection for local runs and tests
type UserStore struct {
	users map[string]*users.User
	mu    sync.RWMutex
}

// NewUserStore creates an empty user store
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]*users.User),
	}
}

// Create inserts a user, rejecting duplicate IDs or emails
func (s *UserStore) Create(ctx context.Context, user *users.User) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return nil, users.ErrUserAlreadyExists
	}
	for _, u := range s.users {
		if user.Email != "" && u.Email == user.Email {
			return nil, users.ErrUserAlreadyExists
		}
	}

	stored := *user
	if stored.Role == "" {
		stored.Role = users.RoleUser
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.users[stored.ID] = &stored

	out := stored
	return &out, nil
}

// GetByIDs resolves the known subset of ids
func (s *UserStore) GetByIDs(ctx context.Context, ids []string) (map[string]*users.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*users.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out := *u
			result[id] = &out
		}
	}
	return result, nil
}

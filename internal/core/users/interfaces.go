package users

import "context"

// Repository defines data access for the users collection.
// Account lifecycle belongs to the auth collaborator; this interface covers
// what the post stores need to populate author views, plus seeding.
type Repository interface {
	// Create inserts a user. Returns ErrUserAlreadyExists on ID/email collision.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByIDs resolves a batch of users keyed by ID. Unknown IDs are omitted.
	GetByIDs(ctx context.Context, ids []string) (map[string]*User, error)
}

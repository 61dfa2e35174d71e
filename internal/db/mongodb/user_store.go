package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"Postify/internal/core/users"
)

type mongoUserStore struct {
	coll *mongo.Collection
}

// NewUserStore creates a users.Repository backed by the users collection
func NewUserStore(db *mongo.Database) users.Repository {
	return newUserStore(db)
}

func newUserStore(db *mongo.Database) *mongoUserStore {
	return &mongoUserStore{coll: db.Collection(usersCollection)}
}

// Create inserts a user document
func (s *mongoUserStore) Create(ctx context.Context, user *users.User) (*users.User, error) {
	created := *user
	if created.Role == "" {
		created.Role = users.RoleUser
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	if _, err := s.coll.InsertOne(ctx, created); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, users.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

// GetByIDs resolves a batch of users with one $in query
func (s *mongoUserStore) GetByIDs(ctx context.Context, ids []string) (map[string]*users.User, error) {
	result := make(map[string]*users.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := s.coll.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}

	var found []users.User
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	for i := range found {
		result[found[i].ID] = &found[i]
	}
	return result, nil
}

package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Seed decodes a JSON array of users from r and creates each one.
// Users that already exist are skipped. It returns how many were created.
func Seed(ctx context.Context, repo Repository, r io.Reader) (int, error) {
	var list []*User
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return 0, fmt.Errorf("failed to decode users: %w", err)
	}

	created := 0
	for i, u := range list {
		if u == nil || strings.TrimSpace(u.ID) == "" {
			return created, fmt.Errorf("user %d: _id is required", i)
		}
		u.ID = strings.TrimSpace(u.ID)
		u.Role = ParseRole(string(u.Role))

		if _, err := repo.Create(ctx, u); err != nil {
			if errors.Is(err, ErrUserAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("user %s: %w", u.ID, err)
		}
		created++
	}
	return created, nil
}

package users_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Postify/internal/core/users"
	"Postify/internal/db/memory"
)

func TestSeed(t *testing.T) {
	store := memory.NewUserStore()
	ctx := context.Background()

	input := `[
		{"_id": "alice", "name": "Alice", "email": "alice@example.com"},
		{"_id": " root ", "name": "Root", "role": "admin"},
		{"_id": "mallory", "name": "Mallory", "role": "superuser"}
	]`

	created, err := users.Seed(ctx, store, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	found, err := store.GetByIDs(ctx, []string{"root", "mallory"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, users.RoleAdmin, found["root"].Role)
	assert.Equal(t, users.RoleUser, found["mallory"].Role)

	// Reseeding skips existing accounts
	created, err = users.Seed(ctx, store, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestSeed_Invalid(t *testing.T) {
	store := memory.NewUserStore()

	_, err := users.Seed(context.Background(), store, strings.NewReader(`{"_id": "alice"}`))
	assert.Error(t, err)

	created, err := users.Seed(context.Background(), store, strings.NewReader(`[{"_id": "a"}, {"name": "nobody"}]`))
	assert.Error(t, err)
	assert.Equal(t, 1, created)
}

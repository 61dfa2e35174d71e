package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Postify/internal/config"
	"Postify/internal/core/users"
)

func TestOpen_Memory(t *testing.T) {
	stores, err := Open(context.Background(), &config.Config{StoreBackend: config.BackendMemory})
	require.NoError(t, err)
	defer stores.Close()

	ctx := context.Background()
	_, err = stores.Users.Create(ctx, &users.User{ID: "alice", Name: "Alice"})
	require.NoError(t, err)

	// Both repositories share the same user data
	post, err := stores.Posts.Create(ctx, "alice", "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice", post.Author.Name)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoreBackend: "cassandra"})
	assert.Error(t, err)
}

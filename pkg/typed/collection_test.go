package typed_test

import (
	"context"
	"testing"

	"github.com/aretw0/pinboard/pkg/adapters/memory"
	"github.com/aretw0/pinboard/pkg/core"
	"github.com/aretw0/pinboard/pkg/storage"
	"github.com/aretw0/pinboard/pkg/typed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type UserProfile struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func (u UserProfile) EntityID() string { return u.ID }

func setupCollection(t *testing.T) *typed.Collection[UserProfile] {
	t.Helper()
	adapter := storage.New(storage.Config{Backend: memory.NewBackend()})
	return typed.NewCollection[UserProfile](adapter, "users")
}

func TestCollection(t *testing.T) {
	users := setupCollection(t)
	ctx := context.Background()

	// 1. Post assigns an ID
	alice, err := users.Post(ctx, UserProfile{Name: "Alice", Email: "alice@example.com", Age: 30})
	require.NoError(t, err)
	require.NotEmpty(t, alice.ID)

	// 2. Get decodes the typed value
	got, err := users.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	// 3. Put updates in place
	got.Age = 31
	_, err = users.Put(ctx, got)
	require.NoError(t, err)

	_, err = users.Post(ctx, UserProfile{Name: "Bob", Age: 25})
	require.NoError(t, err)

	list, err := users.Query(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 31, list[0].Age)
	assert.Equal(t, "Bob", list[1].Name)

	// 4. Remove
	require.NoError(t, users.Remove(ctx, alice.ID))
	_, err = users.Get(ctx, alice.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCollection_Seed(t *testing.T) {
	users := setupCollection(t)
	ctx := context.Background()

	exists, err := users.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	seeded, err := users.Seed(ctx, []UserProfile{{ID: "u1", Name: "Seed"}})
	require.NoError(t, err)
	assert.True(t, seeded)

	got, err := users.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Seed", got.Name)
	assert.Equal(t, "users", users.Key())
}

package storage_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/pinboard/pkg/adapters/memory"
	"github.com/aretw0/pinboard/pkg/core"
	"github.com/aretw0/pinboard/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const key = "entities"

func setupAdapter(t *testing.T) (*storage.Adapter, *memory.Backend) {
	t.Helper()
	backend := memory.NewBackend()
	var mu sync.Mutex
	n := 0
	adapter := storage.New(storage.Config{
		Backend: backend,
		IDGen: func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("e%d", n)
		},
	})
	return adapter, backend
}

func TestAdapter_CRUD(t *testing.T) {
	adapter, backend := setupAdapter(t)
	ctx := context.Background()

	// 1. Query on absent key
	list, err := adapter.Query(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, list)

	// 2. Post
	posted, err := adapter.Post(ctx, key, core.Entity{Fields: core.Fields{"txt": "a"}})
	require.NoError(t, err)
	assert.Equal(t, "e1", posted.ID)

	second, err := adapter.Post(ctx, key, core.Entity{Fields: core.Fields{"txt": "b"}})
	require.NoError(t, err)
	assert.Equal(t, "e2", second.ID)

	// 3. Get
	got, err := adapter.Get(ctx, key, "e1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Fields["txt"])

	// 4. Put keeps length and position
	got.Fields["txt"] = "a2"
	_, err = adapter.Put(ctx, key, got)
	require.NoError(t, err)

	list, err = adapter.Query(ctx, key)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e1", list[0].ID)
	assert.Equal(t, "a2", list[0].Fields["txt"])

	// 5. Remove
	require.NoError(t, adapter.Remove(ctx, key, "e1"))
	list, err = adapter.Query(ctx, key)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "e2", list[0].ID)

	// Every mutation rewrites the collection.
	assert.Equal(t, 4, backend.Stores())
}

func TestAdapter_NotFound(t *testing.T) {
	adapter, _ := setupAdapter(t)
	ctx := context.Background()

	_, err := adapter.Get(ctx, key, "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = adapter.Put(ctx, key, core.Entity{ID: "nope"})
	assert.ErrorIs(t, err, core.ErrNotFound)

	err = adapter.Remove(ctx, key, "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = adapter.Put(ctx, key, core.Entity{})
	assert.Error(t, err)
}

func TestAdapter_Seed(t *testing.T) {
	adapter, backend := setupAdapter(t)
	ctx := context.Background()

	seed := []core.Entity{{ID: "s1"}, {ID: "s2"}}

	seeded, err := adapter.Seed(ctx, key, seed)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = adapter.Seed(ctx, key, []core.Entity{{ID: "other"}})
	require.NoError(t, err)
	assert.False(t, seeded, "seed must not overwrite an existing collection")
	assert.Equal(t, 1, backend.Stores())

	exists, err := adapter.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAdapter_SeedEmptyCollection(t *testing.T) {
	adapter, backend := setupAdapter(t)
	ctx := context.Background()

	require.NoError(t, backend.Store(ctx, key, []byte(`[]`)))

	exists, err := adapter.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	seeded, err := adapter.Seed(ctx, key, []core.Entity{{ID: "s1"}})
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestAdapter_CorruptCollection(t *testing.T) {
	adapter, backend := setupAdapter(t)
	ctx := context.Background()

	require.NoError(t, backend.Store(ctx, key, []byte(`{not json`)))

	_, err := adapter.Query(ctx, key)
	assert.ErrorIs(t, err, core.ErrStorage)
}

type failingBackend struct {
	*memory.Backend
}

func (f failingBackend) Store(ctx context.Context, key string, data []byte) error {
	return errors.New("disk full")
}

func TestAdapter_StoreFailure(t *testing.T) {
	adapter := storage.New(storage.Config{Backend: failingBackend{memory.NewBackend()}})

	_, err := adapter.Post(context.Background(), key, core.Entity{})
	assert.ErrorIs(t, err, core.ErrStorage)
}

func TestAdapter_ConcurrentPosts(t *testing.T) {
	adapter, _ := setupAdapter(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := adapter.Post(ctx, key, core.Entity{Fields: core.Fields{"n": i}})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := adapter.Query(ctx, key)
	require.NoError(t, err)
	assert.Len(t, list, writers, "no write may be lost")

	state, ok := adapter.State().(storage.AdapterState)
	require.True(t, ok)
	assert.Equal(t, "memory", state.BackendType)
	assert.Equal(t, writers, state.Writes[key])
}

func TestNewUUID(t *testing.T) {
	a, b := storage.NewUUID(), storage.NewUUID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

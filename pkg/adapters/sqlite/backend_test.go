package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pinboard/pkg/adapters/sqlite"
	"github.com/aretw0/pinboard/pkg/core"
	"github.com/aretw0/pinboard/pkg/note"
	"github.com/aretw0/pinboard/pkg/storage"
)

func setupBackend(t *testing.T) *sqlite.Backend {
	t.Helper()
	b, err := sqlite.NewBackend(sqlite.Config{Path: filepath.Join(t.TempDir(), "db", "pinboard.db")})
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	require.NoError(t, b.Initialize(context.Background()))
	return b
}

func TestBackend_CRUD(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	_, err := b.Load(ctx, "noteDB")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, b.Store(ctx, "noteDB", []byte(`[{"id":"n1"}]`)))
	require.NoError(t, b.Store(ctx, "noteDB", []byte(`[{"id":"n2"}]`)))
	require.NoError(t, b.Store(ctx, "other", []byte(`[]`)))

	data, err := b.Load(ctx, "noteDB")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"n2"}]`, string(data))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"noteDB", "other"}, keys)

	updated, err := b.UpdatedAt(ctx, "noteDB")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), updated, time.Minute)

	require.NoError(t, b.Delete(ctx, "noteDB"))
	assert.ErrorIs(t, b.Delete(ctx, "noteDB"), core.ErrNotFound)

	state := b.State().(sqlite.BackendState)
	assert.True(t, state.Migrated)
	assert.Equal(t, 3, state.Stores)
	assert.Equal(t, "sqlite", b.ComponentType())
}

func TestBackend_InitializeTwice(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.Initialize(context.Background()))
}

func TestBackend_ConcurrentPosts(t *testing.T) {
	ctx := context.Background()
	adapter := storage.New(storage.Config{Backend: setupBackend(t)})
	svc := note.NewService(note.Config{Store: adapter})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := svc.EmptyNote(note.TypeText)
			if assert.NoError(t, err) {
				_, err = svc.Save(ctx, n)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	notes, err := svc.Query(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 10)
}

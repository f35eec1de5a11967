package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "noteDB.json")

		require.NoError(t, writeFileAtomic(filename, []byte("[]"), 0644))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(got))
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "noteDB.json")
		require.NoError(t, os.WriteFile(filename, []byte("initial"), 0644))

		require.NoError(t, writeFileAtomic(filename, []byte("overwritten"), 0644))

		got, err := os.ReadFile(filename)
		require.NoError(t, err)
		assert.Equal(t, "overwritten", string(got))
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, writeFileAtomic(filepath.Join(dir, "a.json"), []byte("{}"), 0644))

		matches, err := filepath.Glob(filepath.Join(dir, TempFilePrefix+"*"))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("Fails if Directory Missing", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing_folder", "test.json")
		assert.Error(t, writeFileAtomic(filename, []byte("fail"), 0644))
	})
}

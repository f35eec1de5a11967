// Package fs stores collections as files, one file per storage key.
//
// The key "noteDB" lives at <dir>/noteDB.json (or noteDB.yaml). Writes are
// atomic. With versioning enabled every change is committed to a git
// repository rooted at the directory.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/pinboard/pkg/core"
	"github.com/aretw0/pinboard/pkg/git"
)

// Config holds the configuration for the filesystem backend.
type Config struct {
	Path      string
	Format    Format
	ReadOnly  bool
	Versioned bool // commit every change to git
	MustExist bool // fail Initialize instead of creating Path
	Logger    *slog.Logger
}

// Backend implements core.Backend on a directory.
type Backend struct {
	path       string
	serializer Serializer
	config     Config
	git        *git.Client

	mu       sync.Mutex
	written  map[string]writeMark
	watchers int
}

// writeMark remembers the last change this backend made to a key, so the
// watcher can tell its own writes from foreign ones.
type writeMark struct {
	data    []byte
	deleted bool
}

// NewBackend creates a filesystem backend rooted at config.Path.
func NewBackend(config Config) (*Backend, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("fs backend requires a path")
	}
	serializer, err := SerializerFor(config.Format)
	if err != nil {
		return nil, err
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	path := filepath.Clean(config.Path)
	return &Backend{
		path:       path,
		serializer: serializer,
		config:     config,
		git:        git.NewClient(path, git.DefaultLockName, config.Logger),
		written:    make(map[string]writeMark),
	}, nil
}

// Path returns the directory holding the collections.
func (b *Backend) Path() string {
	return b.path
}

// Initialize creates the directory and, when versioned, the git repository.
// A read-only backend only checks that nothing needs to be created.
func (b *Backend) Initialize(ctx context.Context) error {
	if b.config.MustExist || b.config.ReadOnly {
		info, err := os.Stat(b.path)
		if os.IsNotExist(err) {
			if b.config.ReadOnly && !b.config.MustExist {
				return nil
			}
			return fmt.Errorf("storage path does not exist: %s", b.path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("storage path is not a directory: %s", b.path)
		}
		if b.config.ReadOnly {
			return nil
		}
	} else if err := os.MkdirAll(b.path, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	if !b.config.Versioned {
		return nil
	}
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !b.git.IsRepo() {
		if err := b.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := b.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	if mod && wasNewRepo {
		if err := b.commit(ctx, ".gitignore", "chore: ignore lock file"); err != nil {
			return err
		}
	}
	return nil
}

// ensureIgnore adds the git lock file to .gitignore. It reports whether the file changed.
func (b *Backend) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(b.path, ".gitignore")
	entry := git.DefaultLockName

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == entry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(entry + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads and decodes the file of key.
func (b *Backend) Load(ctx context.Context, key string) ([]byte, error) {
	filename, err := b.filename(key)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("key %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	data, err := b.serializer.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	return data, nil
}

// Store encodes data and atomically replaces the file of key.
func (b *Backend) Store(ctx context.Context, key string, data []byte) error {
	if b.config.ReadOnly {
		return fmt.Errorf("store %s: %w", key, core.ErrReadOnly)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	filename, err := b.filename(key)
	if err != nil {
		return err
	}

	encoded, err := b.serializer.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	b.mark(key, writeMark{data: encoded})
	if err := writeFileAtomic(filename, encoded, 0644); err != nil {
		b.unmark(key)
		return err
	}
	b.config.Logger.Debug("stored collection", "key", key, "file", filename, "bytes", len(encoded))

	if b.config.Versioned {
		return b.commit(ctx, filepath.Base(filename), changeReason(ctx, "update "+key))
	}
	return nil
}

// Delete removes the file of key.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if b.config.ReadOnly {
		return fmt.Errorf("delete %s: %w", key, core.ErrReadOnly)
	}
	filename, err := b.filename(key)
	if err != nil {
		return err
	}

	b.mark(key, writeMark{deleted: true})
	if err := os.Remove(filename); err != nil {
		b.unmark(key)
		if os.IsNotExist(err) {
			return fmt.Errorf("key %s: %w", key, core.ErrNotFound)
		}
		return fmt.Errorf("failed to delete %s: %w", filename, err)
	}

	if b.config.Versioned {
		return b.commit(ctx, filepath.Base(filename), changeReason(ctx, "delete "+key))
	}
	return nil
}

// Keys lists the keys of every collection file in the directory.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.path)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", b.path, err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if key, ok := b.keyOf(entry.Name()); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (b *Backend) filename(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(b.path, key+b.serializer.Extension()), nil
}

// keyOf maps a file name in the directory back to its key.
func (b *Backend) keyOf(name string) (string, bool) {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, TempFilePrefix) {
		return "", false
	}
	ext := b.serializer.Extension()
	if filepath.Ext(name) != ext {
		return "", false
	}
	key := strings.TrimSuffix(name, ext)
	return key, key != ""
}

func (b *Backend) commit(ctx context.Context, file, msg string) error {
	unlock, err := b.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := b.git.Add(ctx, file); err != nil {
		return fmt.Errorf("failed to stage %s: %w", file, err)
	}
	status, err := b.git.Status(ctx, file)
	if err != nil {
		return err
	}
	if status == "" {
		return nil
	}
	if err := b.git.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to commit %s: %w", file, err)
	}
	return nil
}

// changeReason returns the commit message carried by ctx, or fallback.
func changeReason(ctx context.Context, fallback string) string {
	if msg, ok := ctx.Value(core.ChangeReasonKey).(string); ok && msg != "" {
		return msg
	}
	return fallback
}

func (b *Backend) mark(key string, m writeMark) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.written[key] = m
}

func (b *Backend) unmark(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.written, key)
}

// ownWrite reports whether the current content of key is what this backend last wrote.
func (b *Backend) ownWrite(key string, data []byte, exists bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.written[key]
	if !ok {
		return false
	}
	if m.deleted {
		return !exists
	}
	return exists && string(m.data) == string(data)
}

var (
	_ core.Backend   = (*Backend)(nil)
	_ core.Watchable = (*Backend)(nil)
)

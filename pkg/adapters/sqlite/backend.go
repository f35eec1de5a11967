// Package sqlite stores collections as rows of a key-value table.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/introspection"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/aretw0/pinboard/pkg/core"
)

//go:embed migrations/*.sql
var migrations embed.FS

// dsnPragmas are applied by the driver to every new connection.
const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// goose keeps its dialect, filesystem and logger in package state.
var migrateMu sync.Mutex

// Config holds the configuration for the sqlite backend.
type Config struct {
	Path   string // database file
	Logger *slog.Logger
}

// Backend implements core.Backend on a sqlite database.
type Backend struct {
	path   string
	db     *sql.DB
	logger *slog.Logger

	mu       sync.Mutex
	migrated bool
	stores   int
}

// NewBackend prepares a backend for the database at config.Path.
// No connection is made until Initialize.
func NewBackend(config Config) (*Backend, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("sqlite backend requires a path")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	db, err := sql.Open("sqlite", config.Path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &Backend{
		path:   config.Path,
		db:     db,
		logger: config.Logger,
	}, nil
}

// Initialize creates the parent directory and migrates the schema.
func (b *Backend) Initialize(ctx context.Context) error {
	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	if err := runMigrations(b.db, b.logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	b.mu.Lock()
	b.migrated = true
	b.mu.Unlock()
	b.logger.Debug("sqlite backend ready", "path", b.path)
	return nil
}

func runMigrations(db *sql.DB, logger *slog.Logger) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// gooseLogger sends migration progress to the backend logger at debug level.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
	os.Exit(1)
}

// Load returns the value stored under key.
func (b *Backend) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("key %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return data, nil
}

// Store upserts the value under key.
func (b *Backend) Store(ctx context.Context, key string, data []byte) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}

	b.mu.Lock()
	b.stores++
	b.mu.Unlock()
	return nil
}

// Delete removes key. A missing key is reported as core.ErrNotFound.
func (b *Backend) Delete(ctx context.Context, key string) error {
	res, err := b.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("key %s: %w", key, core.ErrNotFound)
	}
	return nil
}

// Keys lists the stored keys in order.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// UpdatedAt returns when key was last stored.
func (b *Backend) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var ms int64
	err := b.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("key %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load %s: %w", key, err)
	}
	return time.UnixMilli(ms), nil
}

// Close releases the database handle.
func (b *Backend) Close() error {
	return b.db.Close()
}

// BackendState exposes internal state for observability.
type BackendState struct {
	Path     string `json:"path"`
	Migrated bool   `json:"migrated"`
	Stores   int    `json:"stores"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BackendState{Path: b.path, Migrated: b.migrated, Stores: b.stores}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "sqlite"
}

var (
	_ core.Backend                 = (*Backend)(nil)
	_ core.Closer                  = (*Backend)(nil)
	_ introspection.Introspectable = (*Backend)(nil)
	_ introspection.Component      = (*Backend)(nil)
)

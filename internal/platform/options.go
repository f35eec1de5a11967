package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/pinboard/pkg/core"
	"github.com/aretw0/pinboard/pkg/storage"
)

// options holds the internal configuration for a pinboard instance.
type options struct {
	config  Config
	backend core.Backend
	logger  *slog.Logger
	idGen   storage.IDGenerator
	now     func() time.Time
	seed    bool
}

// Option defines a functional option for configuring pinboard.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration, e.g. one returned by LoadConfig.
// Options given after it still apply on top.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c
	}
}

// WithBackend selects the storage backend by name: "fs", "sqlite" or "memory".
// Defaults to "fs".
func WithBackend(name string) Option {
	return func(o *options) {
		o.config.Backend = name
	}
}

// WithPath sets the backend location: a directory for fs, a database file for sqlite.
func WithPath(path string) Option {
	return func(o *options) {
		o.config.Path = path
	}
}

// WithFormat selects the on-disk format of the fs backend ("json" or "yaml").
func WithFormat(format string) Option {
	return func(o *options) {
		o.config.Format = format
	}
}

// WithKey sets the storage key of the note collection. Defaults to "noteDB".
func WithKey(key string) Option {
	return func(o *options) {
		o.config.Key = key
	}
}

// WithReadOnly enables read-only mode. Writes return core.ErrReadOnly and
// nothing is created on disk.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config.ReadOnly = enabled
	}
}

// WithVersioning enables git commits for every change of the fs backend.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config.Versioned = enabled
	}
}

// WithMustExist makes initialization fail when the fs directory is missing.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config.MustExist = must
	}
}

// WithSeed writes the demo notes on open when the collection is empty.
func WithSeed(seed bool) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorageBackend injects a ready backend (e.g. a mock). The backend
// name, path and format are then ignored.
func WithStorageBackend(b core.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithIDGenerator replaces the uuid generator used for new notes.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) {
		o.idGen = gen
	}
}

// WithClock replaces the clock used to stamp new notes.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

package pinboard

import (
	"log/slog"
	"time"

	"github.com/aretw0/pinboard/internal/platform"
	"github.com/aretw0/pinboard/pkg/core"
	"github.com/aretw0/pinboard/pkg/editor"
)

// --- Types ---

// Pinboard is a wired instance: backend, storage adapter and note service.
type Pinboard = platform.Pinboard

// Config is the resolved configuration of a pinboard instance.
type Config = platform.Config

// EditorConfig configures NewEditor. Its Notes field is filled in by NewEditor.
type EditorConfig = editor.Config

// --- Configuration ---

// Option defines a functional option for configuring pinboard.
type Option = platform.Option

// DefaultConfigFile is the file name looked up by FindConfig.
const DefaultConfigFile = platform.DefaultConfigFile

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return platform.DefaultConfig()
}

// LoadConfig reads a YAML config file, applies PINBOARD_* environment
// overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// FindConfig looks upwards from startDir for pinboard.yaml.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option {
	return platform.WithConfig(c)
}

// WithBackend selects the storage backend by name ("fs", "sqlite", "memory").
func WithBackend(name string) Option {
	return platform.WithBackend(name)
}

// WithPath sets the backend location.
func WithPath(path string) Option {
	return platform.WithPath(path)
}

// WithFormat selects the fs on-disk format ("json", "yaml").
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithKey sets the storage key of the note collection.
func WithKey(key string) Option {
	return platform.WithKey(key)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithVersioning enables git commits for every change.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithMustExist requires the storage directory to exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithSeed writes the demo notes when the collection is empty.
func WithSeed(seed bool) Option {
	return platform.WithSeed(seed)
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStorageBackend injects a custom backend.
func WithStorageBackend(b core.Backend) Option {
	return platform.WithStorageBackend(b)
}

// WithIDGenerator replaces the id generator of new notes.
func WithIDGenerator(gen func() string) Option {
	return platform.WithIDGenerator(gen)
}

// WithClock replaces the clock stamping new notes.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// --- Factory ---

// New creates a wired pinboard instance.
func New(opts ...Option) (*Pinboard, error) {
	return platform.New(opts...)
}

// Init builds and initializes a backend explicitly.
func Init(opts ...Option) (core.Backend, error) {
	return platform.Init(opts...)
}

// NewEditor creates a note editor saving through pb's note service.
func NewEditor(pb *Pinboard, config EditorConfig) (*editor.Editor, error) {
	config.Notes = pb.Notes
	return editor.New(config)
}

// --- Semantic Commits ---

const (
	CommitTypeFeat     = platform.CommitTypeFeat
	CommitTypeFix      = platform.CommitTypeFix
	CommitTypeDocs     = platform.CommitTypeDocs
	CommitTypeStyle    = platform.CommitTypeStyle
	CommitTypeRefactor = platform.CommitTypeRefactor
	CommitTypePerf     = platform.CommitTypePerf
	CommitTypeTest     = platform.CommitTypeTest
	CommitTypeChore    = platform.CommitTypeChore
)

// FormatChangeReason builds a Conventional Commit message.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return platform.FormatChangeReason(ctype, scope, subject, body)
}

// AppendFooter appends the pinboard footer to an arbitrary message.
func AppendFooter(msg string) string {
	return platform.AppendFooter(msg)
}

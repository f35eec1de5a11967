package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/introspection"

	"github.com/aretw0/pinboard/pkg/adapters/fs"
	"github.com/aretw0/pinboard/pkg/adapters/memory"
	"github.com/aretw0/pinboard/pkg/adapters/sqlite"
	"github.com/aretw0/pinboard/pkg/core"
	"github.com/aretw0/pinboard/pkg/note"
	"github.com/aretw0/pinboard/pkg/storage"
)

// ErrNotWatchable is returned by Watch when the backend cannot report changes.
var ErrNotWatchable = errors.New("backend does not support watching")

// Pinboard is a wired instance: backend, storage adapter and note service.
type Pinboard struct {
	Config  Config
	Backend core.Backend
	Storage *storage.Adapter
	Notes   *note.Service
	logger  *slog.Logger
}

// Init builds the configured backend and runs its initialization
// (mkdir, git init, schema migration).
func Init(opts ...Option) (core.Backend, error) {
	o := resolve(opts)
	return initBackend(o)
}

func resolve(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

func initBackend(o *options) (core.Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	var (
		b   core.Backend
		err error
	)
	switch o.config.Backend {
	case "fs":
		b, err = fs.NewBackend(fs.Config{
			Path:      o.config.Path,
			Format:    fs.Format(o.config.Format),
			ReadOnly:  o.config.ReadOnly,
			Versioned: o.config.Versioned,
			MustExist: o.config.MustExist,
			Logger:    o.logger,
		})
	case "sqlite":
		if o.config.ReadOnly {
			return nil, fmt.Errorf("read-only mode is not supported by the sqlite backend")
		}
		b, err = sqlite.NewBackend(sqlite.Config{Path: o.config.Path, Logger: o.logger})
	case "memory":
		b = memory.NewBackend()
	default:
		return nil, fmt.Errorf("unknown backend: %s", o.config.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := b.Initialize(context.Background()); err != nil {
		if c, ok := b.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	o.logger.Debug("backend ready", "backend", o.config.Backend, "path", o.config.Path)
	return b, nil
}

// New wires a backend, the storage adapter and the note service.
//
//	pb, err := platform.New(platform.WithBackend("sqlite"), platform.WithPath("notes.db"))
func New(opts ...Option) (*Pinboard, error) {
	o := resolve(opts)

	b, err := initBackend(o)
	if err != nil {
		return nil, err
	}

	adapter := storage.New(storage.Config{
		Backend: b,
		IDGen:   o.idGen,
		Logger:  o.logger,
	})
	notes := note.NewService(note.Config{
		Store:  adapter,
		Key:    o.config.Key,
		Logger: o.logger,
		Now:    o.now,
	})

	pb := &Pinboard{
		Config:  o.config,
		Backend: b,
		Storage: adapter,
		Notes:   notes,
		logger:  o.logger,
	}

	if o.seed {
		if _, err := notes.Initialize(context.Background()); err != nil {
			_ = pb.Close()
			return nil, err
		}
	}
	return pb, nil
}

// Watch reports changes of keys matching pattern made outside this process.
func (p *Pinboard) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	w, ok := p.Backend.(core.Watchable)
	if !ok {
		return nil, fmt.Errorf("%s: %w", p.Config.Backend, ErrNotWatchable)
	}
	return w.Watch(ctx, pattern)
}

// Close releases backend resources.
func (p *Pinboard) Close() error {
	if c, ok := p.Backend.(core.Closer); ok {
		return c.Close()
	}
	return nil
}

// State implements introspection.Introspectable.
func (p *Pinboard) State() any {
	state := map[string]any{
		"config":  p.Config,
		"storage": p.Storage.State(),
	}
	if i, ok := p.Backend.(introspection.Introspectable); ok {
		state["backend"] = i.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (p *Pinboard) ComponentType() string {
	return "pinboard"
}

var _ introspection.Introspectable = (*Pinboard)(nil)
var _ introspection.Component = (*Pinboard)(nil)

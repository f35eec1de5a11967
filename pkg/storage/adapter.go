// Package storage implements generic collection access over a core.Backend.
//
// A collection is the full list of entities under one storage key. Every
// operation reads the whole serialized list, and every mutation writes the
// whole list back. There are no partial updates and no indexes.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/pinboard/pkg/core"
)

// IDGenerator produces identifiers for posted entities.
type IDGenerator func() string

// NewUUID is the default IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}

// Config holds the configuration for the storage adapter.
type Config struct {
	Backend core.Backend
	IDGen   IDGenerator
	Logger  *slog.Logger
}

// Adapter performs query/get/post/put/remove on collections held by a backend.
// Read-modify-write cycles on the same key are serialized within the process.
type Adapter struct {
	backend core.Backend
	idGen   IDGenerator
	logger  *slog.Logger
	locks   keyedMutex

	mu     sync.RWMutex
	writes map[string]int
}

// New creates a new storage adapter.
func New(config Config) *Adapter {
	if config.IDGen == nil {
		config.IDGen = NewUUID
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Adapter{
		backend: config.Backend,
		idGen:   config.IDGen,
		logger:  config.Logger,
		writes:  make(map[string]int),
	}
}

// Backend returns the backend the adapter writes to.
func (a *Adapter) Backend() core.Backend {
	return a.backend
}

// Query returns every entity of the collection in stored order.
// An absent key is an empty collection.
func (a *Adapter) Query(ctx context.Context, collection string) ([]core.Entity, error) {
	return a.load(ctx, collection)
}

// Get returns the entity with the given id.
func (a *Adapter) Get(ctx context.Context, collection, id string) (core.Entity, error) {
	entities, err := a.load(ctx, collection)
	if err != nil {
		return core.Entity{}, err
	}
	if i := indexOf(entities, id); i >= 0 {
		return entities[i], nil
	}
	return core.Entity{}, fmt.Errorf("get %s/%s: %w", collection, id, core.ErrNotFound)
}

// Post appends the entity under a freshly generated id.
func (a *Adapter) Post(ctx context.Context, collection string, e core.Entity) (core.Entity, error) {
	unlock := a.locks.Lock(collection)
	defer unlock()

	entities, err := a.load(ctx, collection)
	if err != nil {
		return core.Entity{}, err
	}

	e.ID = a.idGen()
	entities = append(entities, e)
	if err := a.store(ctx, collection, entities); err != nil {
		return core.Entity{}, err
	}
	return e, nil
}

// Put replaces the entity that has the same id.
func (a *Adapter) Put(ctx context.Context, collection string, e core.Entity) (core.Entity, error) {
	if e.ID == "" {
		return core.Entity{}, fmt.Errorf("put %s: entity has no ID", collection)
	}

	unlock := a.locks.Lock(collection)
	defer unlock()

	entities, err := a.load(ctx, collection)
	if err != nil {
		return core.Entity{}, err
	}

	i := indexOf(entities, e.ID)
	if i < 0 {
		return core.Entity{}, fmt.Errorf("put %s/%s: %w", collection, e.ID, core.ErrNotFound)
	}
	entities[i] = e
	if err := a.store(ctx, collection, entities); err != nil {
		return core.Entity{}, err
	}
	return e, nil
}

// Remove deletes the entity with the given id.
func (a *Adapter) Remove(ctx context.Context, collection, id string) error {
	unlock := a.locks.Lock(collection)
	defer unlock()

	entities, err := a.load(ctx, collection)
	if err != nil {
		return err
	}

	i := indexOf(entities, id)
	if i < 0 {
		return fmt.Errorf("remove %s/%s: %w", collection, id, core.ErrNotFound)
	}
	entities = append(entities[:i], entities[i+1:]...)
	return a.store(ctx, collection, entities)
}

// Exists reports whether the collection holds at least one entity.
func (a *Adapter) Exists(ctx context.Context, collection string) (bool, error) {
	entities, err := a.load(ctx, collection)
	if err != nil {
		return false, err
	}
	return len(entities) > 0, nil
}

// Seed writes entities as the whole collection unless it already exists.
// It reports whether anything was written.
func (a *Adapter) Seed(ctx context.Context, collection string, entities []core.Entity) (bool, error) {
	unlock := a.locks.Lock(collection)
	defer unlock()

	existing, err := a.load(ctx, collection)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	if err := a.store(ctx, collection, entities); err != nil {
		return false, err
	}
	a.logger.Debug("collection seeded", "collection", collection, "count", len(entities))
	return true, nil
}

func (a *Adapter) load(ctx context.Context, collection string) ([]core.Entity, error) {
	data, err := a.backend.Load(ctx, collection)
	if errors.Is(err, core.ErrNotFound) {
		return []core.Entity{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", collection, core.ErrStorage, err)
	}
	if len(data) == 0 {
		return []core.Entity{}, nil
	}

	var entities []core.Entity
	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", collection, core.ErrStorage, err)
	}
	if entities == nil {
		entities = []core.Entity{}
	}
	return entities, nil
}

func (a *Adapter) store(ctx context.Context, collection string, entities []core.Entity) error {
	data, err := json.Marshal(entities)
	if err != nil {
		return fmt.Errorf("encode %s: %w: %w", collection, core.ErrStorage, err)
	}
	if err := a.backend.Store(ctx, collection, data); err != nil {
		return fmt.Errorf("store %s: %w: %w", collection, core.ErrStorage, err)
	}

	a.mu.Lock()
	a.writes[collection]++
	a.mu.Unlock()

	a.logger.Debug("collection written", "collection", collection, "size", len(entities))
	return nil
}

func indexOf(entities []core.Entity, id string) int {
	for i, e := range entities {
		if e.ID == id {
			return i
		}
	}
	return -1
}

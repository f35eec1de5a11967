package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/pinboard/pkg/core"
)

// Identifiable is implemented by types stored in a Collection.
type Identifiable interface {
	EntityID() string
}

// Store is the subset of storage.Adapter a Collection relies on.
type Store interface {
	Query(ctx context.Context, collection string) ([]core.Entity, error)
	Get(ctx context.Context, collection, id string) (core.Entity, error)
	Post(ctx context.Context, collection string, e core.Entity) (core.Entity, error)
	Put(ctx context.Context, collection string, e core.Entity) (core.Entity, error)
	Remove(ctx context.Context, collection, id string) error
	Exists(ctx context.Context, collection string) (bool, error)
	Seed(ctx context.Context, collection string, entities []core.Entity) (bool, error)
}

// Collection wraps a Store bound to one storage key to provide type-safe access.
// Values of T round-trip through JSON; the "id" field of T's encoding is the entity ID.
type Collection[T Identifiable] struct {
	store Store
	key   string
}

// NewCollection creates a type-safe view of the collection under key.
func NewCollection[T Identifiable](store Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// Query returns all values in stored order.
func (c *Collection[T]) Query(ctx context.Context) ([]T, error) {
	entities, err := c.store.Query(ctx, c.key)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(entities))
	for _, e := range entities {
		v, err := fromEntity[T](e)
		if err != nil {
			return nil, fmt.Errorf("failed to process entity %s: %w", e.ID, err)
		}
		result = append(result, v)
	}
	return result, nil
}

// Get retrieves and decodes a value by ID.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	e, err := c.store.Get(ctx, c.key, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return fromEntity[T](e)
}

// Post stores v as a new entity and returns it with its assigned ID.
func (c *Collection[T]) Post(ctx context.Context, v T) (T, error) {
	return c.write(ctx, v, c.store.Post)
}

// Put replaces the stored value with the same ID.
func (c *Collection[T]) Put(ctx context.Context, v T) (T, error) {
	return c.write(ctx, v, c.store.Put)
}

// Remove deletes a value by ID.
func (c *Collection[T]) Remove(ctx context.Context, id string) error {
	return c.store.Remove(ctx, c.key, id)
}

// Exists reports whether the collection holds any value.
func (c *Collection[T]) Exists(ctx context.Context) (bool, error) {
	return c.store.Exists(ctx, c.key)
}

// Seed writes values as the initial collection unless it already exists.
func (c *Collection[T]) Seed(ctx context.Context, values []T) (bool, error) {
	entities := make([]core.Entity, 0, len(values))
	for _, v := range values {
		e, err := toEntity(v)
		if err != nil {
			return false, err
		}
		entities = append(entities, e)
	}
	return c.store.Seed(ctx, c.key, entities)
}

func (c *Collection[T]) write(ctx context.Context, v T, op func(context.Context, string, core.Entity) (core.Entity, error)) (T, error) {
	var zero T
	e, err := toEntity(v)
	if err != nil {
		return zero, err
	}
	saved, err := op(ctx, c.key, e)
	if err != nil {
		return zero, err
	}
	return fromEntity[T](saved)
}

func toEntity[T Identifiable](v T) (core.Entity, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return core.Entity{}, fmt.Errorf("failed to marshal typed value: %w", err)
	}

	var e core.Entity
	if err := json.Unmarshal(data, &e); err != nil {
		return core.Entity{}, fmt.Errorf("failed to convert typed value to entity: %w", err)
	}
	e.ID = v.EntityID()
	return e, nil
}

func fromEntity[T Identifiable](e core.Entity) (T, error) {
	var v T
	data, err := json.Marshal(e)
	if err != nil {
		return v, fmt.Errorf("entity marshal failed: %w", err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return v, nil
}

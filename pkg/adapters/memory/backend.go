// Package memory provides an in-process core.Backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/pinboard/pkg/core"
)

// Backend keeps collections in a map. Data is copied on the way in and out.
type Backend struct {
	mu     sync.RWMutex
	data   map[string][]byte
	stores int
}

// NewBackend creates an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

// Initialize is a no-op; the map is ready on construction.
func (b *Backend) Initialize(ctx context.Context) error { return nil }

// Load returns a copy of the value under key.
func (b *Backend) Load(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.data[key]
	if !ok {
		return nil, fmt.Errorf("key %s: %w", key, core.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Store keeps a copy of data under key.
func (b *Backend) Store(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), data...)
	b.stores++
	return nil
}

// Delete removes key. A missing key is reported as core.ErrNotFound.
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.data[key]; !ok {
		return fmt.Errorf("key %s: %w", key, core.ErrNotFound)
	}
	delete(b.data, key)
	return nil
}

// Keys lists the stored keys in sorted order.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Stores returns how many times Store succeeded. Tests use it to assert
// that reads perform no writes.
func (b *Backend) Stores() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stores
}

// BackendState exposes internal state for observability.
type BackendState struct {
	Keys   int `json:"keys"`
	Stores int `json:"stores"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return BackendState{Keys: len(b.data), Stores: b.stores}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "memory"
}

var _ core.Backend = (*Backend)(nil)
var _ introspection.Introspectable = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)

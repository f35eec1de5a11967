package core

import "context"

// Backend defines the contract of a byte store addressed by storage key.
// Each key holds one serialized collection. Implementations must not
// interpret the bytes they store.
type Backend interface {
	// Load returns the data stored under key, or ErrNotFound if the key is absent.
	Load(ctx context.Context, key string) ([]byte, error)

	// Store replaces the data under key.
	Store(ctx context.Context, key string, data []byte) error

	// Delete removes the key. Deleting an absent key returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// Keys lists every stored key.
	Keys(ctx context.Context) ([]string, error)

	// Initialize ensures the underlying storage is ready (e.g., create directories, git init, schema migration).
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for backends that can report changes made
// to their keys, including changes made by other processes.
type Watchable interface {
	// Watch emits an event per changed key matching the glob pattern.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Closer is implemented by backends holding resources (e.g. database handles).
type Closer interface {
	Close() error
}

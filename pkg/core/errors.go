package core

import "errors"

// Common errors.
var (
	// ErrNotFound is returned for unknown entity ids and absent storage keys.
	ErrNotFound = errors.New("not found")

	// ErrStorage marks serialization and backend failures.
	ErrStorage = errors.New("storage failure")

	// ErrReadOnly is returned by writes to a backend opened read-only.
	ErrReadOnly = errors.New("backend is in read-only mode")
)

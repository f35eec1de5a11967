package fs

import (
	"github.com/aretw0/introspection"
)

// BackendState exposes internal state for observability.
type BackendState struct {
	Path          string `json:"path"`
	Format        string `json:"format"`
	ReadOnly      bool   `json:"read_only"`
	Versioned     bool   `json:"versioned"`
	Watchers      int    `json:"watchers"`
	TrackedWrites int    `json:"tracked_writes"`
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BackendState{
		Path:          b.path,
		Format:        b.serializer.Extension()[1:],
		ReadOnly:      b.config.ReadOnly,
		Versioned:     b.config.Versioned,
		Watchers:      b.watchers,
		TrackedWrites: len(b.written),
	}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)

func (b *Backend) setWatchers(delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watchers += delta
}

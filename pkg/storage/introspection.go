package storage

import (
	"github.com/aretw0/introspection"
)

// AdapterState exposes internal state for observability.
type AdapterState struct {
	BackendType string         `json:"backend_type"`
	Writes      map[string]int `json:"writes"`
}

// State implements introspection.Introspectable.
func (a *Adapter) State() any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	backendType := "unknown"
	if comp, ok := a.backend.(introspection.Component); ok {
		backendType = comp.ComponentType()
	}

	writes := make(map[string]int, len(a.writes))
	for k, v := range a.writes {
		writes[k] = v
	}

	return AdapterState{
		BackendType: backendType,
		Writes:      writes,
	}
}

// ComponentType implements introspection.Component.
func (a *Adapter) ComponentType() string {
	return "storage"
}

var _ introspection.Introspectable = (*Adapter)(nil)
var _ introspection.Component = (*Adapter)(nil)

// Package core holds the storage-agnostic contracts of pinboard.
package core

import (
	"encoding/json"
	"fmt"
)

// IDField is the key under which an entity's identifier is serialized.
const IDField = "id"

// Fields represents the flexible key-value payload of an entity.
type Fields map[string]any

// Entity is a single element of a collection.
// It is identified by ID and carries an arbitrary JSON-compatible payload.
// On the wire it is a flat JSON object with the ID stored under "id".
type Entity struct {
	ID     string
	Fields Fields
}

// MarshalJSON flattens the entity into a single object.
func (e Entity) MarshalJSON() ([]byte, error) {
	payload := make(map[string]any, len(e.Fields)+1)
	for k, v := range e.Fields {
		payload[k] = v
	}
	if e.ID != "" {
		payload[IDField] = e.ID
	} else {
		delete(payload, IDField)
	}
	return json.Marshal(payload)
}

// UnmarshalJSON splits the "id" key out of the object.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	e.ID = ""
	if raw, ok := payload[IDField]; ok {
		switch v := raw.(type) {
		case string:
			e.ID = v
		case nil:
		default:
			e.ID = fmt.Sprint(v)
		}
		delete(payload, IDField)
	}
	e.Fields = payload
	return nil
}

// EventType represents the type of change on a storage key.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of a whole collection in a backend.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}

type contextKey string

// ChangeReasonKey is the context key for passing a change reason (commit message)
// to versioned backends.
const ChangeReasonKey contextKey = "change_reason"

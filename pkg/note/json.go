package note

import (
	"encoding/json"
	"fmt"
)

// wireNote is the stored form of a Note.
type wireNote struct {
	ID        string          `json:"id,omitempty"`
	CreatedAt *int64          `json:"createdAt"`
	Type      string          `json:"type"`
	IsPinned  bool            `json:"isPinned"`
	Style     *Style          `json:"style,omitempty"`
	Info      json.RawMessage `json:"info"`
}

// MarshalJSON encodes the note with Type as the tag of the Info payload.
func (n Note) MarshalJSON() ([]byte, error) {
	info := n.Info
	if info == nil {
		var err error
		if info, err = NewInfo(n.Type); err != nil {
			return nil, err
		}
	}
	if info.Type() != n.Type {
		return nil, fmt.Errorf("note %s: type %s carries %s payload", n.ID, n.Type, info.Type())
	}

	payload, err := json.Marshal(info)
	if err != nil {
		return nil, err
	}
	style := n.Style
	return json.Marshal(wireNote{
		ID:        n.ID,
		CreatedAt: n.CreatedAt,
		Type:      string(n.Type),
		IsPinned:  n.IsPinned,
		Style:     &style,
		Info:      payload,
	})
}

// UnmarshalJSON decodes the Info payload selected by the type tag.
// Legacy tags are normalized to their canonical names.
func (n *Note) UnmarshalJSON(data []byte) error {
	var w wireNote
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	t, err := ParseType(w.Type)
	if err != nil {
		return err
	}
	info, err := NewInfo(t)
	if err != nil {
		return err
	}
	if len(w.Info) > 0 && string(w.Info) != "null" {
		if err := json.Unmarshal(w.Info, info); err != nil {
			return fmt.Errorf("decode %s info: %w", t, err)
		}
	}
	if todos, ok := info.(*TodoListInfo); ok && todos.Todos == nil {
		todos.Todos = []Todo{}
	}

	*n = Note{
		ID:        w.ID,
		CreatedAt: w.CreatedAt,
		Type:      t,
		IsPinned:  w.IsPinned,
		Info:      info,
	}
	if w.Style != nil {
		n.Style = *w.Style
	}
	return nil
}

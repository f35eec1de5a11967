package editor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/pinboard/pkg/note"
)

// InputKind mirrors the type attribute of a form input.
type InputKind string

const (
	KindText     InputKind = "text"
	KindNumber   InputKind = "number"
	KindRange    InputKind = "range"
	KindCheckbox InputKind = "checkbox"
)

// FieldInput is one change event of a form field.
type FieldInput struct {
	Name    string
	Kind    InputKind
	Value   string
	Checked bool
}

// Coerce converts the raw input by kind: number and range inputs become a
// float64, or "" when the value is not a number or is zero; checkboxes
// become a bool; everything else stays a string.
func Coerce(in FieldInput) any {
	switch in.Kind {
	case KindNumber, KindRange:
		f, err := strconv.ParseFloat(strings.TrimSpace(in.Value), 64)
		if err != nil || f == 0 || math.IsNaN(f) {
			return ""
		}
		return f
	case KindCheckbox:
		return in.Checked
	}
	return in.Value
}

func text(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(v)
}

// Change applies a field edit to the info payload of the note being edited.
// The field must be one of the payload's fields for the current variant.
func (e *Editor) Change(in FieldInput) error {
	value := text(Coerce(in))

	e.mu.Lock()
	defer e.mu.Unlock()

	field := infoField(e.note.Info, in.Name)
	if field == nil {
		return fmt.Errorf("%w %q for %s", ErrUnknownField, in.Name, e.note.Type)
	}
	*field = value
	return nil
}

// infoField returns a pointer to the named string field of the payload.
func infoField(info note.Info, name string) *string {
	switch info := info.(type) {
	case *note.TextInfo:
		if name == "txt" {
			return &info.Txt
		}
	case *note.ImageInfo:
		switch name {
		case "url":
			return &info.URL
		case "title":
			return &info.Title
		}
	case *note.TodoListInfo:
		if name == "title" {
			return &info.Title
		}
	case *note.VideoInfo:
		if name == "videoUrl" {
			return &info.VideoURL
		}
	case *note.DrawingInfo:
		if name == "drawingData" {
			return &info.DrawingData
		}
	}
	return nil
}

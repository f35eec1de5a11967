// Package note defines sticky notes and the service that stores them.
package note

import "fmt"

// Type is the tag selecting a note variant.
type Type string

const (
	TypeText    Type = "TextNote"
	TypeImage   Type = "ImageNote"
	TypeTodos   Type = "TodoListNote"
	TypeVideo   Type = "VideoNote"
	TypeDrawing Type = "DrawingNote"
)

// Types lists every variant in display order.
var Types = []Type{TypeText, TypeImage, TypeTodos, TypeVideo, TypeDrawing}

// legacyTypes maps tags found in older collections to their canonical name.
var legacyTypes = map[string]Type{
	"NoteTxt":   TypeText,
	"NoteImg":   TypeImage,
	"NoteTodos": TypeTodos,
	"NoteVideo": TypeVideo,
	"NoteDraw":  TypeDrawing,
}

// ParseType resolves a canonical or legacy tag. Short names used by the CLI
// ("text", "img", "todos", "video", "draw") are accepted too.
func ParseType(s string) (Type, error) {
	switch s {
	case "text", "txt":
		return TypeText, nil
	case "img", "image":
		return TypeImage, nil
	case "todos", "list":
		return TypeTodos, nil
	case "video":
		return TypeVideo, nil
	case "draw", "drawing":
		return TypeDrawing, nil
	}
	for _, t := range Types {
		if string(t) == s {
			return t, nil
		}
	}
	if t, ok := legacyTypes[s]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown note type %q", s)
}

// DefaultBackgroundColor is the color of freshly created notes.
const DefaultBackgroundColor = "#00d"

// Style holds the presentation attributes of a note.
type Style struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// Note is a sticky note. Its Info payload depends on Type.
//
// ID is empty until the note is first saved. CreatedAt is a Unix timestamp
// in milliseconds and is nil for unsaved notes.
type Note struct {
	ID        string
	CreatedAt *int64
	Type      Type
	IsPinned  bool
	Style     Style
	Info      Info
}

// EntityID implements typed.Identifiable.
func (n Note) EntityID() string {
	return n.ID
}

// Info is the variant payload of a note. The set of implementations is closed.
type Info interface {
	Type() Type
	isInfo()
}

// TextInfo is the payload of a TextNote.
type TextInfo struct {
	Txt string `json:"txt"`
}

// ImageInfo is the payload of an ImageNote. URL may be a data URL.
type ImageInfo struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// TodoListInfo is the payload of a TodoListNote.
type TodoListInfo struct {
	Title string `json:"title"`
	Todos []Todo `json:"todos"`
}

// Todo is one entry of a todo list. DoneAt is nil while the entry is open.
type Todo struct {
	Txt    string `json:"txt"`
	DoneAt *int64 `json:"doneAt"`
}

// VideoInfo is the payload of a VideoNote.
type VideoInfo struct {
	VideoURL string `json:"videoUrl"`
}

// DrawingInfo is the payload of a DrawingNote. DrawingData is an encoded
// image snapshot (data URL).
type DrawingInfo struct {
	DrawingData string `json:"drawingData"`
}

func (*TextInfo) Type() Type     { return TypeText }
func (*ImageInfo) Type() Type    { return TypeImage }
func (*TodoListInfo) Type() Type { return TypeTodos }
func (*VideoInfo) Type() Type    { return TypeVideo }
func (*DrawingInfo) Type() Type  { return TypeDrawing }

func (*TextInfo) isInfo()     {}
func (*ImageInfo) isInfo()    {}
func (*TodoListInfo) isInfo() {}
func (*VideoInfo) isInfo()    {}
func (*DrawingInfo) isInfo()  {}

// NewInfo returns the empty payload of a variant.
func NewInfo(t Type) (Info, error) {
	switch t {
	case TypeText:
		return &TextInfo{}, nil
	case TypeImage:
		return &ImageInfo{}, nil
	case TypeTodos:
		return &TodoListInfo{Todos: []Todo{}}, nil
	case TypeVideo:
		return &VideoInfo{}, nil
	case TypeDrawing:
		return &DrawingInfo{}, nil
	}
	return nil, fmt.Errorf("unknown note type %q", t)
}

// Empty returns a new unsaved note of the given variant.
func Empty(t Type) (Note, error) {
	info, err := NewInfo(t)
	if err != nil {
		return Note{}, err
	}
	return Note{
		Type:  t,
		Style: Style{BackgroundColor: DefaultBackgroundColor},
		Info:  info,
	}, nil
}

// Clone returns a deep copy of n, so edits on the copy never reach n.
func (n Note) Clone() Note {
	out := n
	if n.CreatedAt != nil {
		v := *n.CreatedAt
		out.CreatedAt = &v
	}
	switch info := n.Info.(type) {
	case *TextInfo:
		c := *info
		out.Info = &c
	case *ImageInfo:
		c := *info
		out.Info = &c
	case *TodoListInfo:
		c := TodoListInfo{Title: info.Title, Todos: make([]Todo, len(info.Todos))}
		for i, todo := range info.Todos {
			c.Todos[i] = Todo{Txt: todo.Txt}
			if todo.DoneAt != nil {
				v := *todo.DoneAt
				c.Todos[i].DoneAt = &v
			}
		}
		out.Info = &c
	case *VideoInfo:
		c := *info
		out.Info = &c
	case *DrawingInfo:
		c := *info
		out.Info = &c
	}
	return out
}

// Text returns the searchable text of a note: its txt, title, todo entries and urls.
func (n Note) Text() []string {
	switch info := n.Info.(type) {
	case *TextInfo:
		return []string{info.Txt}
	case *ImageInfo:
		return []string{info.Title, info.URL}
	case *TodoListInfo:
		out := []string{info.Title}
		for _, todo := range info.Todos {
			out = append(out, todo.Txt)
		}
		return out
	case *VideoInfo:
		return []string{info.VideoURL}
	}
	return nil
}

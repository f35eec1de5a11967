// Package editor implements the headless note editor: a form over one
// in-memory note whose behavior branches by note variant.
//
// The editor is owned by one caller (a UI shell). Its methods are safe to
// call from asynchronous completions such as image reads.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/pinboard/pkg/canvas"
	"github.com/aretw0/pinboard/pkg/note"
)

// Editor errors.
var (
	ErrUnknownField    = errors.New("unknown field")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrWrongVariant    = errors.New("operation not available for this note variant")
)

// DefaultListPath is where the editor navigates after a successful save.
const DefaultListPath = "/note"

// Notes is the part of note.Service the editor depends on.
type Notes interface {
	Get(ctx context.Context, id string) (note.Note, error)
	Save(ctx context.Context, n note.Note) (note.Note, error)
	EmptyNote(t note.Type) (note.Note, error)
}

// Config holds the collaborators of an Editor.
type Config struct {
	Notes Notes

	// Surface backs the Draw variant. Defaults to a 300x200 canvas.Raster.
	Surface canvas.Surface

	// OnSaved receives every saved note. Hosts append it to their list.
	OnSaved func(note.Note)

	// Navigate is invoked with ListPath after a successful save.
	Navigate func(path string)
	ListPath string

	Logger *slog.Logger
	Now    func() time.Time
}

// Editor holds the note being edited and the per-variant local state.
type Editor struct {
	notes    Notes
	surface  canvas.Surface
	onSaved  func(note.Note)
	navigate func(string)
	listPath string
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	note     note.Note
	variant  note.Type
	fileName string
	drawing  string
	stroke   *canvas.Stroke
}

// New creates an editor holding an empty text note.
func New(config Config) (*Editor, error) {
	if config.Notes == nil {
		return nil, errors.New("editor requires a note service")
	}
	if config.Surface == nil {
		config.Surface = canvas.NewRaster(canvas.DefaultWidth, canvas.DefaultHeight)
	}
	if config.ListPath == "" {
		config.ListPath = DefaultListPath
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	e := &Editor{
		notes:    config.Notes,
		surface:  config.Surface,
		onSaved:  config.OnSaved,
		navigate: config.Navigate,
		listPath: config.ListPath,
		logger:   config.Logger,
		now:      config.Now,
		stroke:   canvas.NewStroke(config.Surface),
	}

	empty, err := e.notes.EmptyNote(note.TypeText)
	if err != nil {
		return nil, err
	}
	e.note = empty
	e.variant = note.TypeText
	return e, nil
}

// Note returns a copy of the note being edited.
func (e *Editor) Note() note.Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.note.Clone()
}

// Variant returns the current editor state.
func (e *Editor) Variant() note.Type {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.variant
}

// Load fetches a stored note and makes it the note being edited.
// Failures are logged and leave the editor unchanged.
func (e *Editor) Load(ctx context.Context, id string) error {
	n, err := e.notes.Get(ctx, id)
	if err != nil {
		e.logger.Error("load note failed", "id", id, "error", err)
		return fmt.Errorf("load note %s: %w", id, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.note = n
	e.variant = n.Type
	e.fileName = ""
	e.drawing = ""
	e.stroke.PointerLeave()
	if d, ok := n.Info.(*note.DrawingInfo); ok && d.DrawingData != "" {
		e.drawing = d.DrawingData
		e.surface.Clear()
		if r, ok := e.surface.(canvas.Restorer); ok {
			if err := r.Restore(d.DrawingData); err != nil {
				e.logger.Warn("restore drawing failed", "id", id, "error", err)
			}
		}
	}
	return nil
}

// Switch moves the editor to another variant. The note being edited is
// replaced by an empty note of that variant and unsaved edits are lost.
func (e *Editor) Switch(t note.Type) error {
	empty, err := e.notes.EmptyNote(t)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.note = empty
	e.variant = t
	if t == note.TypeDrawing {
		e.drawing = ""
		e.stroke.PointerLeave()
		e.surface.Clear()
	}
	return nil
}

// Submit persists the note being edited.
//
// For drawing notes the last snapshot is copied into the note first. On
// success the editor is reset to an empty text note, OnSaved receives the
// saved note and the host is navigated to the list. On failure the error is
// logged and the editor keeps its state; nothing is retried.
func (e *Editor) Submit(ctx context.Context) (note.Note, error) {
	e.mu.Lock()
	if d, ok := e.note.Info.(*note.DrawingInfo); ok && e.variant == note.TypeDrawing {
		d.DrawingData = e.drawing
	}
	pending := e.note.Clone()
	e.mu.Unlock()

	saved, err := e.notes.Save(ctx, pending)
	if err != nil {
		e.logger.Error("save note failed", "type", pending.Type, "error", err)
		return note.Note{}, fmt.Errorf("submit note: %w", err)
	}

	empty, err := e.notes.EmptyNote(note.TypeText)
	if err != nil {
		return saved, err
	}

	e.mu.Lock()
	e.note = empty
	e.variant = note.TypeText
	e.fileName = ""
	e.drawing = ""
	e.mu.Unlock()

	if e.navigate != nil {
		e.navigate(e.listPath)
	}
	if e.onSaved != nil {
		e.onSaved(saved)
	}
	e.logger.Debug("note saved", "id", saved.ID, "type", saved.Type)
	return saved, nil
}

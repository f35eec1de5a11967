package editor

import (
	"fmt"

	"github.com/aretw0/pinboard/pkg/canvas"
	"github.com/aretw0/pinboard/pkg/note"
)

// PointerDown begins a stroke. Pointer events are ignored outside the Draw variant.
func (e *Editor) PointerDown(p canvas.Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.variant == note.TypeDrawing {
		e.stroke.PointerDown(p)
	}
}

// PointerMove extends the current stroke.
func (e *Editor) PointerMove(p canvas.Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.variant == note.TypeDrawing {
		e.stroke.PointerMove(p)
	}
}

// PointerUp ends the stroke and keeps a snapshot of the surface. The
// snapshot reaches the note only on Submit.
func (e *Editor) PointerUp() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.variant != note.TypeDrawing {
		return nil
	}

	snapshot, ok, err := e.stroke.PointerUp()
	if err != nil {
		e.logger.Error("drawing snapshot failed", "error", err)
		return fmt.Errorf("snapshot drawing: %w", err)
	}
	if ok {
		e.drawing = snapshot
	}
	return nil
}

// PointerLeave ends the stroke without a snapshot.
func (e *Editor) PointerLeave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stroke.PointerLeave()
}

// ClearCanvas erases the surface. The last snapshot is kept.
func (e *Editor) ClearCanvas() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.surface.Clear()
}

// Snapshot returns the last snapshot taken on pointer-up.
func (e *Editor) Snapshot() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drawing
}

// Stroke returns the state of the pointer machine.
func (e *Editor) Stroke() canvas.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stroke.State()
}

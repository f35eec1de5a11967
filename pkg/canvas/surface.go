// Package canvas abstracts the drawing surface used by drawing notes and
// implements the free-hand stroke state machine on top of it.
package canvas

// Point is a position on a surface, in pixels from the top-left corner.
type Point struct {
	X, Y int
}

// Surface is the drawable capability the stroke machine needs.
type Surface interface {
	// DrawLine strokes a segment from one point to another.
	DrawLine(from, to Point)
	// Snapshot encodes the current surface as an image data URL.
	Snapshot() (string, error)
	// Clear erases the whole surface.
	Clear()
}

// Restorer is implemented by surfaces that can paint a previous snapshot back.
type Restorer interface {
	Restore(snapshot string) error
}

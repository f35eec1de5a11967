package canvas

// State of a Stroke.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Stroke turns pointer events into lines on a Surface.
//
//	Idle --down--> Drawing --move--> Drawing
//	Drawing --up--> Idle (snapshot)
//	Drawing --leave--> Idle (no snapshot)
type Stroke struct {
	surface Surface
	state   State
	last    Point
}

// NewStroke creates an idle stroke machine over surface.
func NewStroke(surface Surface) *Stroke {
	return &Stroke{surface: surface}
}

// State returns the current state.
func (s *Stroke) State() State {
	return s.state
}

// PointerDown begins a path at p.
func (s *Stroke) PointerDown(p Point) {
	s.state = Drawing
	s.last = p
}

// PointerMove extends the path to p. It is ignored while idle.
func (s *Stroke) PointerMove(p Point) {
	if s.state != Drawing {
		return
	}
	s.surface.DrawLine(s.last, p)
	s.last = p
}

// PointerUp ends the stroke and returns a snapshot of the surface.
// ok is false when no stroke was in progress.
func (s *Stroke) PointerUp() (snapshot string, ok bool, err error) {
	if s.state != Drawing {
		return "", false, nil
	}
	s.state = Idle
	snapshot, err = s.surface.Snapshot()
	if err != nil {
		return "", false, err
	}
	return snapshot, true, nil
}

// PointerLeave ends the stroke without taking a snapshot.
func (s *Stroke) PointerLeave() {
	s.state = Idle
}

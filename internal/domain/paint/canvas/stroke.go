package canvas

import "github.com/GriffinCanCode/retrodesk/internal/domain/paint"

// Point is a position in canvas pixels
type Point struct {
	X, Y float64
}

// Emitter receives locally drawn segments for transmission
type Emitter interface {
	Emit(seg paint.Segment)
}

// EmitterFunc adapts a function to Emitter
type EmitterFunc func(seg paint.Segment)

// Emit calls f(seg)
func (f EmitterFunc) Emit(seg paint.Segment) { f(seg) }

// Stroke turns pointer events into segments. Each segment is rendered on the
// local surface before it is emitted, so the author never waits on the relay.
type Stroke struct {
	draw  func(paint.Segment)
	emit  Emitter
	color string
	size  float64

	drawing bool
	moved   bool
	prev    Point
}

// NewStroke creates a tracker drawing onto surface with the default brush
func NewStroke(surface *Surface, emit Emitter) *Stroke {
	return newStroke(surface.Draw, emit)
}

func newStroke(draw func(paint.Segment), emit Emitter) *Stroke {
	return &Stroke{
		draw:  draw,
		emit:  emit,
		color: DefaultColor,
		size:  DefaultSize,
	}
}

// SetBrush changes the color and size for subsequent segments
func (s *Stroke) SetBrush(color string, size float64) {
	s.color = color
	s.size = size
}

// Drawing reports whether a stroke is in progress
func (s *Stroke) Drawing() bool {
	return s.drawing
}

// PointerDown starts a stroke at p
func (s *Stroke) PointerDown(p Point) {
	s.drawing = true
	s.moved = false
	s.prev = p
}

// PointerMove extends the stroke to p. Moves outside a stroke, or to the
// current point, do nothing.
func (s *Stroke) PointerMove(p Point) {
	if !s.drawing || p == s.prev {
		return
	}

	seg := s.segment(s.prev, p)
	s.draw(seg)
	if s.emit != nil {
		s.emit.Emit(seg)
	}
	s.prev = p
	s.moved = true
}

// PointerUp ends the stroke. A press without movement leaves a local dot
// that is not sent to the relay.
func (s *Stroke) PointerUp() {
	if s.drawing && !s.moved {
		s.draw(s.segment(s.prev, s.prev))
	}
	s.drawing = false
	s.moved = false
}

func (s *Stroke) segment(from, to Point) paint.Segment {
	return paint.Segment{
		X:     to.X,
		Y:     to.Y,
		PrevX: from.X,
		PrevY: from.Y,
		Color: s.color,
		Size:  s.size,
	}
}

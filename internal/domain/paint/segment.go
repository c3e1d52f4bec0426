package paint

import (
	"errors"
	"fmt"
	"math"
)

// MaxColorLength bounds the opaque color string
const MaxColorLength = 32

// ErrInvalidSegment is returned for draw payloads that fail validation
var ErrInvalidSegment = errors.New("invalid draw segment")

// Segment is one immutable line stroke from (PrevX, PrevY) to (X, Y)
// in logical canvas pixels.
type Segment struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	PrevX float64 `json:"prevX"`
	PrevY float64 `json:"prevY"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
}

// Validate checks that the segment is safe to store and rebroadcast.
// Coordinates are not bounds-checked; strokes may leave the canvas.
func (s Segment) Validate(maxSize float64) error {
	for name, v := range map[string]float64{"x": s.X, "y": s.Y, "prevX": s.PrevX, "prevY": s.PrevY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidSegment, name)
		}
	}
	if math.IsNaN(s.Size) || s.Size <= 0 {
		return fmt.Errorf("%w: size must be positive", ErrInvalidSegment)
	}
	if maxSize > 0 && s.Size > maxSize {
		return fmt.Errorf("%w: size %.1f exceeds %.1f", ErrInvalidSegment, s.Size, maxSize)
	}
	if s.Color == "" || len(s.Color) > MaxColorLength {
		return fmt.Errorf("%w: color must be 1-%d bytes", ErrInvalidSegment, MaxColorLength)
	}
	return nil
}

// IsDot reports whether the segment starts and ends at the same point
func (s Segment) IsDot() bool {
	return s.X == s.PrevX && s.Y == s.PrevY
}

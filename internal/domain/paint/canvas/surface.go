package canvas

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
)

// Canvas geometry and defaults
const (
	Width      = 800
	Height     = 600
	Background = "#ffffff"
)

// Surface is a fixed-size RGBA raster with round-capped line drawing
type Surface struct {
	img *image.RGBA
	bg  color.RGBA
}

// NewSurface creates a blank canvas filled with the background color
func NewSurface() *Surface {
	bg, _ := ParseColor(Background)
	s := &Surface{
		img: image.NewRGBA(image.Rect(0, 0, Width, Height)),
		bg:  bg,
	}
	s.Clear()
	return s
}

// Clear fills the surface with the background color
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{C: s.bg}, image.Point{}, draw.Src)
}

// Draw renders seg as a thick line with round caps. A segment whose ends
// coincide renders as a dot. Unparseable colors draw black.
func (s *Surface) Draw(seg paint.Segment) {
	c, ok := ParseColor(seg.Color)
	if !ok {
		c = color.RGBA{A: 0xff}
	}

	r := seg.Size / 2
	if r < 0.5 {
		r = 0.5
	}

	bounds := s.img.Bounds()
	minX := clamp(math.Floor(math.Min(seg.X, seg.PrevX)-r), bounds.Min.X, bounds.Max.X)
	maxX := clamp(math.Ceil(math.Max(seg.X, seg.PrevX)+r), bounds.Min.X, bounds.Max.X)
	minY := clamp(math.Floor(math.Min(seg.Y, seg.PrevY)-r), bounds.Min.Y, bounds.Max.Y)
	maxY := clamp(math.Ceil(math.Max(seg.Y, seg.PrevY)+r), bounds.Min.Y, bounds.Max.Y)

	r2 := r * r
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			// Sample at the pixel center
			if distSq(float64(x)+0.5, float64(y)+0.5, seg) <= r2 {
				s.img.SetRGBA(x, y, c)
			}
		}
	}
}

// Image returns the backing raster. Callers must not modify it.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// PNG encodes the surface
func (s *Surface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JPEG encodes the surface at the given quality
func (s *Surface) JPEG(quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, s.img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// distSq is the squared distance from (px, py) to the segment
func distSq(px, py float64, seg paint.Segment) float64 {
	dx := seg.X - seg.PrevX
	dy := seg.Y - seg.PrevY
	lenSq := dx*dx + dy*dy

	t := 0.0
	if lenSq > 0 {
		t = ((px-seg.PrevX)*dx + (py-seg.PrevY)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}

	cx := seg.PrevX + t*dx - px
	cy := seg.PrevY + t*dy - py
	return cx*cx + cy*cy
}

// clamp bounds v before conversion so far off-canvas coordinates cannot overflow
func clamp(v float64, lo, hi int) int {
	if math.IsNaN(v) || v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}

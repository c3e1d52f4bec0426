package canvas

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
)

var white = color.RGBA{0xff, 0xff, 0xff, 0xff}

func TestNewSurfaceIsWhite(t *testing.T) {
	s := NewSurface()
	img := s.Image()

	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
	assert.Equal(t, white, img.RGBAAt(0, 0))
	assert.Equal(t, white, img.RGBAAt(Width-1, Height-1))
}

func TestSurfaceDrawLine(t *testing.T) {
	s := NewSurface()
	s.Draw(paint.Segment{PrevX: 10, PrevY: 10, X: 100, Y: 10, Color: "#ff0000", Size: 4})

	red := color.RGBA{0xff, 0, 0, 0xff}
	img := s.Image()
	assert.Equal(t, red, img.RGBAAt(50, 10))
	assert.Equal(t, red, img.RGBAAt(50, 9))
	assert.Equal(t, white, img.RGBAAt(50, 20))
	// round cap extends past the endpoint
	assert.Equal(t, red, img.RGBAAt(101, 10))
	assert.Equal(t, white, img.RGBAAt(110, 10))
}

func TestSurfaceDrawDot(t *testing.T) {
	s := NewSurface()
	s.Draw(paint.Segment{PrevX: 200.5, PrevY: 200.5, X: 200.5, Y: 200.5, Color: "#0000ff", Size: 1})

	assert.Equal(t, color.RGBA{0, 0, 0xff, 0xff}, s.Image().RGBAAt(200, 200))
	assert.Equal(t, white, s.Image().RGBAAt(202, 200))
}

func TestSurfaceClipsOffCanvas(t *testing.T) {
	s := NewSurface()
	assert.NotPanics(t, func() {
		s.Draw(paint.Segment{PrevX: -1e9, PrevY: 300, X: 1e9, Y: 300, Color: "#000", Size: 2})
		s.Draw(paint.Segment{PrevX: -50, PrevY: -50, X: -10, Y: -10, Color: "#000", Size: 2})
	})
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, s.Image().RGBAAt(400, 300))
}

func TestSurfaceClear(t *testing.T) {
	s := NewSurface()
	s.Draw(paint.Segment{PrevX: 0, PrevY: 0, X: 799, Y: 599, Color: "#000000", Size: 20})
	s.Clear()
	assert.Equal(t, NewSurface().Image().Pix, s.Image().Pix)
}

func TestSurfacePNG(t *testing.T) {
	data, err := NewSurface().PNG()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ff9900", color.RGBA{0xff, 0x99, 0x00, 0xff}, true},
		{"#FFF", color.RGBA{0xff, 0xff, 0xff, 0xff}, true},
		{"magenta", color.RGBA{0xff, 0x00, 0xff, 0xff}, true},
		{"#12345", color.RGBA{}, false},
		{"#gggggg", color.RGBA{}, false},
		{"rgb(1,2,3)", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPaletteParses(t *testing.T) {
	for _, c := range Palette {
		_, ok := ParseColor(c)
		assert.True(t, ok, c)
	}
}

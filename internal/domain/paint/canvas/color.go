package canvas

import (
	"image/color"
	"strconv"
	"strings"
)

// Palette is the set of colors offered by the paint toolbar
var Palette = []string{
	"#000000",
	"#ffffff",
	"#ff00ff",
	"#00ffff",
	"#00ff00",
	"#ffff00",
	"#ff0000",
	"#0000ff",
	"#ff9900",
	"#9900ff",
}

// Brush defaults used by the paint toolbar
const (
	DefaultColor = "#ff00ff"
	DefaultSize  = 2
	MinBrushSize = 1
	MaxBrushSize = 20
)

var named = map[string]color.RGBA{
	"black":   {0x00, 0x00, 0x00, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"red":     {0xff, 0x00, 0x00, 0xff},
	"green":   {0x00, 0x80, 0x00, 0xff},
	"lime":    {0x00, 0xff, 0x00, 0xff},
	"blue":    {0x00, 0x00, 0xff, 0xff},
	"yellow":  {0xff, 0xff, 0x00, 0xff},
	"cyan":    {0x00, 0xff, 0xff, 0xff},
	"magenta": {0xff, 0x00, 0xff, 0xff},
	"orange":  {0xff, 0xa5, 0x00, 0xff},
	"purple":  {0x80, 0x00, 0x80, 0xff},
	"gray":    {0x80, 0x80, 0x80, 0xff},
}

// ParseColor accepts #rgb, #rrggbb and a few CSS color names.
// Colors are always opaque.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, false
	}

	hex := s[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return color.RGBA{}, false
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

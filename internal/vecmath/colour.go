package vecmath

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Colour is an RGBA colour with every channel in [0, 1].
type Colour [4]float64

var White = Colour{1, 1, 1, 1}

// ParseColour reads "#rrggbbaa", "#rrggbb" or "#rgb". Alpha defaults to 1.
func ParseColour(s string) (Colour, error) {
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Colour{}, fmt.Errorf("parse colour %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Colour{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return Colour{c.R, c.G, c.B, alpha}, nil
}

// Valid reports whether every channel lies in [0, 1].
func (c Colour) Valid() bool {
	for _, v := range c {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Hex formats all four channels as "#rrggbbaa".
func (c Colour) Hex() string {
	a := math.Round(math.Max(0, math.Min(1, c[3])) * 255)
	return fmt.Sprintf("%s%02x", c.RGBHex(), uint8(a))
}

// RGBHex formats the colour channels as "#rrggbb" for terminals.
func (c Colour) RGBHex() string {
	return colorful.Color{R: c[0], G: c[1], B: c[2]}.Clamped().Hex()
}

// Blend returns the per-channel weighted average (wa*c + wb*other) / (wa+wb).
func (c Colour) Blend(other Colour, wa, wb float64) Colour {
	total := wa + wb
	var out Colour
	for i := range c {
		out[i] = (wa*c[i] + wb*other[i]) / total
	}
	return out
}

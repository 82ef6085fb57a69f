package color

import (
	"fmt"
	"math"
	"strings"
)

// Color represents an sRGB color. The R, G, B uint8 fields are the source of truth
// for palette entries; continuous math happens on Values.
type Color struct {
	R, G, B uint8
}

// ParseHex parses a hex color string like "#eb6f92" into a Color.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q: must be 6 hex digits", s)
	}
	var r, g, b uint8
	_, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: r, G: g, B: b}, nil
}

// MustParseHex is like ParseHex but panics on malformed input.
// Intended for tables of known-good literals.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromPacked unpacks a 24-bit 0xRRGGBB integer.
func FromPacked(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Packed returns the color as a 24-bit 0xRRGGBB integer.
func (c Color) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Hex returns the color as a hex string with leading #, e.g. "#eb6f92".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexBare returns the color as a hex string without leading #, e.g. "eb6f92".
func (c Color) HexBare() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the color as an rgb() string, e.g. "rgb(235, 111, 146)".
func (c Color) RGB() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Values returns the sRGB-encoded components in [0, 1].
func (c Color) Values() Values {
	return Values{float64(c.R) / 255.0, float64(c.G) / 255.0, float64(c.B) / 255.0}
}

// Linear returns the linear-light sRGB components in [0, 1].
func (c Color) Linear() Values {
	v := c.Values()
	return Values{ToLinear(v[0]), ToLinear(v[1]), ToLinear(v[2])}
}

// FromSRGB quantizes sRGB-encoded components to a Color, clamping each
// channel to [0, 1] first. NaN channels become 0.
func FromSRGB(v Values) Color {
	return Color{R: quantize(v[0]), G: quantize(v[1]), B: quantize(v[2])}
}

// FromLinear encodes linear sRGB components and quantizes them.
func FromLinear(v Values) Color {
	return FromSRGB(Values{ToSRGB(v[0]), ToSRGB(v[1]), ToSRGB(v[2])})
}

// FromValues converts values in the given space to a quantized sRGB Color.
// Out-of-gamut colors are clipped per channel.
func FromValues(v Values, s Space) (Color, error) {
	rgb, err := ConvertValues(v, s, SpaceRGB)
	if err != nil {
		return Color{}, err
	}
	return FromSRGB(rgb), nil
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(clamp01(v) * 255.0))
}

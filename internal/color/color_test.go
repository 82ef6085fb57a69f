package color

import (
	"math"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Color
		wantErr bool
	}{
		{"with hash", "#eb6f92", Color{235, 111, 146}, false},
		{"without hash", "eb6f92", Color{235, 111, 146}, false},
		{"black", "#000000", Color{0, 0, 0}, false},
		{"white", "#ffffff", Color{255, 255, 255}, false},
		{"uppercase", "#AABBCC", Color{170, 187, 204}, false},
		{"too short", "#fff", Color{}, true},
		{"too long", "#aabbccdd", Color{}, true},
		{"invalid chars", "#zzzzzz", Color{}, true},
		{"empty", "", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestColorHex(t *testing.T) {
	c := Color{235, 111, 146}
	want := "#eb6f92"
	if got := c.Hex(); got != want {
		t.Errorf("Color.Hex() = %q, want %q", got, want)
	}
}

func TestColorHexBare(t *testing.T) {
	c := Color{235, 111, 146}
	want := "eb6f92"
	if got := c.HexBare(); got != want {
		t.Errorf("Color.HexBare() = %q, want %q", got, want)
	}
}

func TestColorRGB(t *testing.T) {
	c := Color{235, 111, 146}
	want := "rgb(235, 111, 146)"
	if got := c.RGB(); got != want {
		t.Errorf("Color.RGB() = %q, want %q", got, want)
	}
}

func TestColorHexZeroPadding(t *testing.T) {
	c := Color{0, 5, 10}
	want := "#00050a"
	if got := c.Hex(); got != want {
		t.Errorf("Color.Hex() = %q, want %q", got, want)
	}
}

func TestBrighten(t *testing.T) {
	tests := []struct {
		name       string
		color      Color
		percentage float64
		want       Color
	}{
		{
			name:       "brighten red by 10%",
			color:      Color{255, 0, 0},
			percentage: 0.1,
			want:       Color{255, 51, 51},
		},
		{
			name:       "brighten gray by 20%",
			color:      Color{128, 128, 128},
			percentage: 0.2,
			want:       Color{179, 179, 179},
		},
		{
			name:       "white stays white",
			color:      Color{255, 255, 255},
			percentage: 0.5,
			want:       Color{255, 255, 255},
		},
		{
			name:       "brighten black by 50%",
			color:      Color{0, 0, 0},
			percentage: 0.5,
			want:       Color{128, 128, 128},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Brighten(tt.color, tt.percentage)
			if got != tt.want {
				t.Errorf("Brighten(%v, %v) = %v, want %v", tt.color, tt.percentage, got, tt.want)
			}
		})
	}
}

func TestDarken(t *testing.T) {
	tests := []struct {
		name       string
		color      Color
		percentage float64
		want       Color
	}{
		{
			name:       "darken red by 10%",
			color:      Color{255, 0, 0},
			percentage: 0.1,
			want:       Color{204, 0, 0},
		},
		{
			name:       "darken gray by 20%",
			color:      Color{128, 128, 128},
			percentage: 0.2,
			want:       Color{77, 77, 77},
		},
		{
			name:       "darken blue by 10%",
			color:      Color{0, 0, 255},
			percentage: 0.1,
			want:       Color{0, 0, 204},
		},
		{
			name:       "black stays black",
			color:      Color{0, 0, 0},
			percentage: 0.5,
			want:       Color{0, 0, 0},
		},
		{
			name:       "darken white by 50%",
			color:      Color{255, 255, 255},
			percentage: 0.5,
			want:       Color{128, 128, 128},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Darken(tt.color, tt.percentage)
			if got != tt.want {
				t.Errorf("Darken(%v, %v) = %v, want %v", tt.color, tt.percentage, got, tt.want)
			}
		})
	}
}

func TestPacked(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  uint32
	}{
		{"black", Color{0, 0, 0}, 0x000000},
		{"rose", Color{235, 111, 146}, 0xeb6f92},
		{"white", Color{255, 255, 255}, 0xffffff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.color.Packed(); got != tt.want {
				t.Errorf("Packed() = %#06x, want %#06x", got, tt.want)
			}
			if got := FromPacked(tt.want); got != tt.color {
				t.Errorf("FromPacked(%#06x) = %v, want %v", tt.want, got, tt.color)
			}
		})
	}
}

func TestFromSRGB(t *testing.T) {
	tests := []struct {
		name  string
		input Values
		want  Color
	}{
		{"in range", Values{1, 0.5, 0}, Color{255, 128, 0}},
		{"clamps above one", Values{1.4, 2, 1.0001}, Color{255, 255, 255}},
		{"clamps below zero", Values{-0.2, -1, 0}, Color{0, 0, 0}},
		{"NaN becomes zero", Values{math.NaN(), 1, 1}, Color{0, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromSRGB(tt.input); got != tt.want {
				t.Errorf("FromSRGB(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromValues(t *testing.T) {
	tests := []struct {
		name  string
		input Values
		space Space
		want  string
	}{
		{"hsl red", Values{0, 100, 50}, SpaceHSL, "#ff0000"},
		{"lab white", Values{100, 0, 0}, SpaceLab, "#ffffff"},
		{"oklch black", Values{0, 0, 120}, SpaceOKLCh, "#000000"},
		{"rgb passthrough", Values{0.2, 0.4, 0.6}, SpaceRGB, "#336699"},
		{"hsl mid gray", Values{0, 0, 50}, SpaceHSL, "#808080"},
		{"hsl gray with hue", Values{210, 0, 50}, SpaceHSL, "#808080"},
		{"hsl light gray", Values{0, 0, 75}, SpaceHSL, "#bfbfbf"},
		{"linear white", Values{1, 1, 1}, SpaceLinearRGB, "#ffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromValues(tt.input, tt.space)
			if err != nil {
				t.Fatalf("FromValues() error: %v", err)
			}
			if got.Hex() != tt.want {
				t.Errorf("FromValues(%v, %s) = %s, want %s", tt.input, tt.space, got.Hex(), tt.want)
			}
		})
	}
}

func TestTransferCurve(t *testing.T) {
	for _, v := range []float64{0, 0.001, 0.04045, 0.2, 0.5, 0.9, 1} {
		// The two branches of the curve disagree by ~3e-8 at the breakpoint.
		if got := ToSRGB(ToLinear(v)); math.Abs(got-v) > 1e-7 {
			t.Errorf("ToSRGB(ToLinear(%v)) = %v", v, got)
		}
	}
	if got := ToLinear(-0.5); math.Abs(got+ToLinear(0.5)) > 1e-15 {
		t.Errorf("ToLinear(-0.5) = %v, want %v", got, -ToLinear(0.5))
	}
	if got := ToSRGB(-0.25); math.Abs(got+ToSRGB(0.25)) > 1e-15 {
		t.Errorf("ToSRGB(-0.25) = %v, want %v", got, -ToSRGB(0.25))
	}
}

package color

import "math"

// RGBToHSL converts sRGB-encoded components in [0, 1] to HSL with h in
// degrees [0, 360) and s, l in [0, 100].
func RGBToHSL(rgb Values) Values {
	r, g, b := clamp01(rgb[0]), clamp01(rgb[1]), clamp01(rgb[2])

	var h, s float64

	min := math.Min(math.Min(r, g), b)
	max := math.Max(math.Max(r, g), b)
	l := (max + min) / 2.0

	if max != min {
		d := max - min
		if l > 0.5 {
			s = d / (2.0 - max - min)
		} else {
			s = d / (max + min)
		}

		switch max {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6.0
			}
		case g:
			h = (b-r)/d + 2.0
		case b:
			h = (r-g)/d + 4.0
		}
		h *= 60
	}

	return Values{NormalizeHue(h), s * 100, l * 100}
}

// HSLToRGB converts HSL (h degrees, s and l in [0, 100]) to sRGB-encoded
// components in [0, 1]. h and h+360 give the same result.
func HSLToRGB(hsl Values) Values {
	h := NormalizeHue(hsl[0]) / 360.0
	s := clamp01(hsl[1] / 100)
	l := clamp01(hsl[2] / 100)

	if s == 0 { // Achromatic
		return Values{l, l, l}
	}

	var q float64
	if l < 0.5 {
		q = l * (1.0 + s)
	} else {
		q = l + s - l*s
	}
	p := 2.0*l - q

	return Values{
		hueToRGB(p, q, h+1.0/3.0),
		hueToRGB(p, q, h),
		hueToRGB(p, q, h-1.0/3.0),
	}
}

// Brighten returns a brighter version of the given color by raising its HSL
// lightness by percentage (0.1 = ten points of lightness).
func Brighten(color Color, percentage float64) Color {
	hsl := RGBToHSL(color.Values())
	hsl[2] = math.Min(100, hsl[2]+percentage*100)
	return FromSRGB(HSLToRGB(hsl))
}

// Darken returns a darker version of the given color by lowering its HSL
// lightness by percentage.
func Darken(color Color, percentage float64) Color {
	hsl := RGBToHSL(color.Values())
	hsl[2] = math.Max(0, hsl[2]-percentage*100)
	return FromSRGB(HSLToRGB(hsl))
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1.0
	}
	if t > 1 {
		t -= 1.0
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6.0*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6.0
	}
	return p
}

package color

import "math"

// Range is the canonical extent of one channel.
type Range struct {
	Min, Max float64
}

// Span returns Max-Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Ranges returns the canonical per-channel extents of space s.
func Ranges(s Space) [3]Range {
	switch s {
	case SpaceRGB, SpaceLinearRGB:
		return [3]Range{{0, 1}, {0, 1}, {0, 1}}
	case SpaceHSL:
		return [3]Range{{0, 360}, {0, 100}, {0, 100}}
	case SpaceLab:
		return [3]Range{{0, 100}, {-128, 128}, {-128, 128}}
	case SpaceLCh:
		return [3]Range{{0, 100}, {0, 150}, {0, 360}}
	case SpaceOKLab:
		return [3]Range{{0, 1}, {-0.4, 0.4}, {-0.4, 0.4}}
	case SpaceOKLCh:
		return [3]Range{{0, 1}, {0, 0.4}, {0, 360}}
	case SpaceXYZ:
		return [3]Range{{0, WhiteD65[0]}, {0, 1}, {0, WhiteD65[2]}}
	}
	return [3]Range{{0, 1}, {0, 1}, {0, 1}}
}

// GamutScale is the factor applied to chroma and opponent extents for
// wider gamuts.
func GamutScale(g Gamut) float64 {
	switch g {
	case GamutDisplayP3:
		return 1.15
	case GamutRec2020:
		return 1.35
	}
	return 1
}

// GamutRanges returns Ranges(s) with the chroma (LCh, OKLCh) or opponent
// (Lab, OKLab) channels widened for gamut g.
func GamutRanges(s Space, g Gamut) [3]Range {
	r := Ranges(s)
	k := GamutScale(g)
	switch s {
	case SpaceLCh, SpaceOKLCh:
		r[1].Max *= k
	case SpaceLab, SpaceOKLab:
		for _, ch := range []int{1, 2} {
			r[ch].Min *= k
			r[ch].Max *= k
		}
	}
	return r
}

// Normalize maps v into [0, 1] per channel. The hue channel wraps modulo
// its span; other channels are affine and may fall outside [0, 1].
func Normalize(v Values, s Space, r [3]Range) Values {
	hue := s.HueChannel()
	var out Values
	for ch := range 3 {
		span := r[ch].Span()
		if span == 0 {
			continue
		}
		if ch == hue {
			out[ch] = wrap01((v[ch] - r[ch].Min) / span)
			continue
		}
		out[ch] = (v[ch] - r[ch].Min) / span
	}
	return out
}

// Unscale is the inverse of Normalize.
func Unscale(n Values, s Space, r [3]Range) Values {
	hue := s.HueChannel()
	var out Values
	for ch := range 3 {
		t := n[ch]
		if ch == hue {
			t = wrap01(t)
		}
		out[ch] = r[ch].Min + t*r[ch].Span()
	}
	return out
}

// Clamp limits v to r. The hue channel is wrapped instead of clamped.
func Clamp(v Values, s Space, r [3]Range) Values {
	hue := s.HueChannel()
	out := v
	for ch := range 3 {
		if ch == hue {
			out[ch] = r[ch].Min + wrap01((v[ch]-r[ch].Min)/r[ch].Span())*r[ch].Span()
			continue
		}
		out[ch] = math.Min(math.Max(v[ch], r[ch].Min), r[ch].Max)
	}
	return out
}

// wrap01 wraps t into [0, 1).
func wrap01(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	t -= math.Floor(t)
	if t >= 1 {
		t = 0
	}
	return t
}

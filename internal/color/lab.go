package color

import "math"

const labDelta = 6.0 / 29.0

// WhiteD65 is the XYZ of the sRGB reference white (linear RGB 1,1,1), so
// that white maps exactly to L=100, a=b=0.
var WhiteD65 Values

func labF(t float64) float64 {
	if t > labDelta*labDelta*labDelta {
		return math.Cbrt(t)
	}
	return t/(3*labDelta*labDelta) + 4.0/29.0
}

func labFInv(t float64) float64 {
	if t > labDelta {
		return t * t * t
	}
	return 3 * labDelta * labDelta * (t - 4.0/29.0)
}

// XYZToLab converts CIE XYZ (D65, Y in [0, 1]) to CIELAB.
func XYZToLab(xyz Values) Values {
	fx := labF(xyz[0] / WhiteD65[0])
	fy := labF(xyz[1] / WhiteD65[1])
	fz := labF(xyz[2] / WhiteD65[2])
	return Values{
		116.0*fy - 16.0,
		500.0 * (fx - fy),
		200.0 * (fy - fz),
	}
}

// LabToXYZ converts CIELAB to CIE XYZ (D65, Y in [0, 1]).
func LabToXYZ(lab Values) Values {
	fy := (lab[0] + 16.0) / 116.0
	fx := fy + lab[1]/500.0
	fz := fy - lab[2]/200.0
	return Values{
		labFInv(fx) * WhiteD65[0],
		labFInv(fy) * WhiteD65[1],
		labFInv(fz) * WhiteD65[2],
	}
}

// LabToLCh converts any (L, a, b) opponent triple to (L, C, h) with h in
// degrees [0, 360). Used for both CIELAB and OKLab.
func LabToLCh(lab Values) Values {
	c := math.Hypot(lab[1], lab[2])
	h := math.Atan2(lab[2], lab[1]) * 180.0 / math.Pi
	return Values{lab[0], c, NormalizeHue(h)}
}

// LChToLab is the inverse of LabToLCh. Any hue, including h+360, is accepted.
func LChToLab(lch Values) Values {
	hr := NormalizeHue(lch[2]) * math.Pi / 180.0
	c := math.Max(lch[1], 0)
	return Values{lch[0], c * math.Cos(hr), c * math.Sin(hr)}
}

// NormalizeHue wraps degrees into [0, 360).
func NormalizeHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

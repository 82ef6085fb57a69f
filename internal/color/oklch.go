package color

import "math"

// ToLinear converts a single sRGB-encoded component to linear light using the
// IEC 61966-2-1 curve. Negative inputs are mirrored.
func ToLinear(v float64) float64 {
	if v < 0 {
		return -ToLinear(-v)
	}
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ToSRGB converts a single linear component to sRGB encoding. Negative inputs
// are mirrored.
func ToSRGB(v float64) float64 {
	if v < 0 {
		return -ToSRGB(-v)
	}
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

// SRGBToLinear applies ToLinear per channel.
func SRGBToLinear(v Values) Values {
	return Values{ToLinear(v[0]), ToLinear(v[1]), ToLinear(v[2])}
}

// LinearToSRGB applies ToSRGB per channel.
func LinearToSRGB(v Values) Values {
	return Values{ToSRGB(v[0]), ToSRGB(v[1]), ToSRGB(v[2])}
}

// LinearRGBToOKLab converts linear sRGB to OKLab (L, a, b).
func LinearRGBToOKLab(rgb Values) Values {
	r, g, b := rgb[0], rgb[1], rgb[2]

	// M1: linear RGB → LMS
	l := 0.4122214708*r + 0.5363325363*g + 0.0514459929*b
	m := 0.2119034982*r + 0.6806995451*g + 0.1073969566*b
	s := 0.0883024619*r + 0.2817188376*g + 0.6299787005*b

	// Cube root (preserving sign)
	lp := math.Cbrt(l)
	mp := math.Cbrt(m)
	sp := math.Cbrt(s)

	// M2: LMS' → Lab
	return Values{
		0.2104542553*lp + 0.7936177850*mp - 0.0040720468*sp,
		1.9779984951*lp - 2.4285922050*mp + 0.4505937099*sp,
		0.0259040371*lp + 0.7827717662*mp - 0.8086757660*sp,
	}
}

// OKLabToLinearRGB converts OKLab (L, a, b) to linear sRGB. The result is not
// clipped.
func OKLabToLinearRGB(lab Values) Values {
	L, a, b := lab[0], lab[1], lab[2]

	// Inverse M2: Lab → LMS'
	lp := L + 0.3963377774*a + 0.2158037573*b
	mp := L - 0.1055613458*a - 0.0638541728*b
	sp := L - 0.0894841775*a - 1.2914855480*b

	// Cube: LMS' → LMS
	l := lp * lp * lp
	m := mp * mp * mp
	s := sp * sp * sp

	// Inverse M1: LMS → linear RGB
	return Values{
		+4.0767416621*l - 3.3077115913*m + 0.2309699292*s,
		-1.2684380046*l + 2.6097574011*m - 0.3413193965*s,
		-0.0041960863*l - 0.7034186147*m + 1.7076147010*s,
	}
}

// XYZToOKLab converts CIE XYZ (D65) to OKLab through linear sRGB.
func XYZToOKLab(xyz Values) Values {
	return LinearRGBToOKLab(XYZToLinear(GamutSRGB, xyz))
}

// OKLabToXYZ converts OKLab to CIE XYZ (D65).
func OKLabToXYZ(lab Values) Values {
	return LinearToXYZ(GamutSRGB, OKLabToLinearRGB(lab))
}

// RGBToOKLCH converts an sRGB Color to OKLCH components.
// L is lightness [0, 1], chroma is colorfulness [0, ~0.37], hue is in degrees [0, 360).
func RGBToOKLCH(c Color) (l, chroma, hue float64) {
	lch := LabToLCh(LinearRGBToOKLab(c.Linear()))
	return lch[0], lch[1], lch[2]
}

// OKLCHToRGB converts OKLCH components to an sRGB Color, clipping out-of-gamut
// channels.
func OKLCHToRGB(l, chroma, hue float64) Color {
	return FromLinear(OKLabToLinearRGB(LChToLab(Values{l, chroma, hue})))
}

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

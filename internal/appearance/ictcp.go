package appearance

import (
	"math"

	"github.com/jsvensson/palettegen/internal/color"
)

// DefaultPeakLuminance is the PQ reference peak in cd/m².
const DefaultPeakLuminance = 10000.0

// SMPTE ST 2084 constants.
const (
	pqM1 = 2610.0 / 16384.0
	pqM2 = 2523.0 / 4096.0 * 128.0
	pqC1 = 3424.0 / 4096.0
	pqC2 = 2413.0 / 4096.0 * 32.0
	pqC3 = 2392.0 / 4096.0 * 32.0
)

var mRec2020ToLMS = [3][3]float64{
	{1688.0 / 4096.0, 2146.0 / 4096.0, 262.0 / 4096.0},
	{683.0 / 4096.0, 2951.0 / 4096.0, 462.0 / 4096.0},
	{99.0 / 4096.0, 309.0 / 4096.0, 3688.0 / 4096.0},
}

var mLMSToICtCp = [3][3]float64{
	{0.5, 0.5, 0},
	{6610.0 / 4096.0, -13613.0 / 4096.0, 7003.0 / 4096.0},
	{17933.0 / 4096.0, -17390.0 / 4096.0, -543.0 / 4096.0},
}

// PQEncode applies the ST 2084 inverse EOTF to a luminance normalized to
// 10000 cd/m². Negative inputs are treated as 0.
func PQEncode(y float64) float64 {
	y = math.Max(y, 0)
	ym := math.Pow(y, pqM1)
	return math.Pow((pqC1+pqC2*ym)/(1+pqC3*ym), pqM2)
}

// XYZToICtCp converts XYZ (Y in [0, 1]) to ICtCp. A linear value of 1 maps
// to peak cd/m²; peak <= 0 selects DefaultPeakLuminance.
func XYZToICtCp(xyz color.Values, peak float64) color.Values {
	if peak <= 0 {
		peak = DefaultPeakLuminance
	}
	lms := color.MulMatrix(mRec2020ToLMS, color.XYZToLinear(color.GamutRec2020, xyz))
	for i := range 3 {
		lms[i] = PQEncode(lms[i] * peak / 10000)
	}
	return color.MulMatrix(mLMSToICtCp, lms)
}

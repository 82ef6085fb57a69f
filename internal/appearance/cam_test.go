package appearance

import (
	"math"
	"testing"

	"github.com/jsvensson/palettegen/internal/color"
	"github.com/stretchr/testify/require"
)

func xyzOf(hex string) color.Values {
	return color.LinearToXYZ(color.GamutSRGB, color.MustParseHex(hex).Linear())
}

func euclid(a, b color.Values) float64 {
	return math.Sqrt((a[0]-b[0])*(a[0]-b[0]) + (a[1]-b[1])*(a[1]-b[1]) + (a[2]-b[2])*(a[2]-b[2]))
}

func TestWhiteHasFullLightness(t *testing.T) {
	for _, m := range []Model{CAM02, CAM16} {
		t.Run(m.String(), func(t *testing.T) {
			ucs := XYZToUCS(m, color.WhiteD65, nil)
			require.InDelta(t, 100, ucs[0], 1e-9)
		})
	}
}

func TestBlackIsOrigin(t *testing.T) {
	for _, m := range []Model{CAM02, CAM16} {
		t.Run(m.String(), func(t *testing.T) {
			ucs := XYZToUCS(m, color.Values{}, nil)
			require.InDelta(t, 0, ucs[0], 1e-9)
			require.InDelta(t, 0, ucs[1], 1e-6)
			require.InDelta(t, 0, ucs[2], 1e-6)
		})
	}
}

func TestDiscountingNeutralizesWhite(t *testing.T) {
	vc := DefaultViewingConditions()
	vc.Discounting = true
	for _, m := range []Model{CAM02, CAM16} {
		t.Run(m.String(), func(t *testing.T) {
			ucs := XYZToUCS(m, color.WhiteD65, &vc)
			require.InDelta(t, 100, ucs[0], 1e-9)
			require.InDelta(t, 0, ucs[1], 1e-2)
			require.InDelta(t, 0, ucs[2], 1e-2)
		})
	}
}

func TestNilConditionsUseDefaults(t *testing.T) {
	vc := DefaultViewingConditions()
	xyz := xyzOf("#eb6f92")
	for _, m := range []Model{CAM02, CAM16} {
		require.Equal(t, XYZToUCS(m, xyz, nil), XYZToUCS(m, xyz, &vc))
	}
}

func TestGrayRampIsMonotone(t *testing.T) {
	for _, m := range []Model{CAM02, CAM16} {
		t.Run(m.String(), func(t *testing.T) {
			prev := -1.0
			for v := 0.05; v <= 1.0; v += 0.05 {
				xyz := color.LinearToXYZ(color.GamutSRGB, color.Values{v, v, v})
				j := XYZToUCS(m, xyz, nil)[0]
				require.Greater(t, j, prev)
				prev = j
			}
		})
	}
}

func TestPrimariesAreFiniteAndOrdered(t *testing.T) {
	for _, m := range []Model{CAM02, CAM16} {
		t.Run(m.String(), func(t *testing.T) {
			red := XYZToUCS(m, xyzOf("#ff0000"), nil)
			orange := XYZToUCS(m, xyzOf("#ff4000"), nil)
			green := XYZToUCS(m, xyzOf("#00ff00"), nil)
			for _, v := range []color.Values{red, orange, green} {
				require.True(t, color.Finite(v), "non-finite UCS %v", v)
			}
			require.Greater(t, euclid(red, green), euclid(red, orange))
		})
	}
}

func TestCorrelatesHue(t *testing.T) {
	cr := DefaultView(CAM16).Correlates(xyzOf("#ff0000"))
	// Saturated red sits near 27° in CAM16.
	require.InDelta(t, 27, cr.H, 5)
	require.Greater(t, cr.C, 80.0)
	require.InDelta(t, cr.C*math.Pow(DefaultView(CAM16).fl, 0.25), cr.M, 1e-9)
}

func TestParseModel(t *testing.T) {
	m, err := ParseModel("CAM16")
	require.NoError(t, err)
	require.Equal(t, CAM16, m)

	_, err = ParseModel("cam97")
	require.Error(t, err)
}

func TestICtCpWhiteAndBlack(t *testing.T) {
	white := XYZToICtCp(color.WhiteD65, 0)
	require.InDelta(t, 1, white[0], 1e-3)
	require.InDelta(t, 0, white[1], 1e-3)
	require.InDelta(t, 0, white[2], 1e-3)

	black := XYZToICtCp(color.Values{}, DefaultPeakLuminance)
	require.InDelta(t, PQEncode(0), black[0], 1e-12)
	require.InDelta(t, 0, black[1], 1e-12)
	require.InDelta(t, 0, black[2], 1e-12)
}

func TestICtCpPeakScalesIntensity(t *testing.T) {
	xyz := xyzOf("#808080")
	hdr := XYZToICtCp(xyz, 10000)
	sdr := XYZToICtCp(xyz, 100)
	require.Greater(t, hdr[0], sdr[0])
}

func TestPQEncodeMonotone(t *testing.T) {
	prev := PQEncode(0)
	for _, y := range []float64{1e-4, 1e-3, 0.01, 0.1, 0.5, 1} {
		got := PQEncode(y)
		require.Greater(t, got, prev)
		prev = got
	}
	require.InDelta(t, 1, PQEncode(1), 1e-12)
	require.Equal(t, PQEncode(0), PQEncode(-0.3))
}

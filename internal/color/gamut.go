package color

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Gamut identifies an RGB primaries set used to decide in-gamut membership.
type Gamut int

const (
	GamutSRGB Gamut = iota
	GamutDisplayP3
	GamutRec2020
)

var gamutNames = map[Gamut]string{
	GamutSRGB:      "srgb",
	GamutDisplayP3: "display-p3",
	GamutRec2020:   "rec2020",
}

// Linear RGB → XYZ (D65) matrices.
var toXYZ = map[Gamut][3][3]float64{
	GamutSRGB: {
		{0.4123907992659595, 0.357584339383878, 0.1804807884018343},
		{0.21263900587151036, 0.715168678767756, 0.07219231536073371},
		{0.01933081871559185, 0.11919477979462599, 0.9505321522496606},
	},
	GamutDisplayP3: {
		{0.4865709486482162, 0.26566769316909306, 0.1982172852343625},
		{0.2289745640697488, 0.6917385218365064, 0.079286914093745},
		{0, 0.04511338185890264, 1.043944368900976},
	},
	GamutRec2020: {
		{0.6369580483012914, 0.14461690358620832, 0.1688809751641721},
		{0.2627002120112671, 0.6779980715188708, 0.05930171646986196},
		{0, 0.028072693049087428, 1.060985057710791},
	},
}

var fromXYZ = map[Gamut][3][3]float64{}

func init() {
	for g, m := range toXYZ {
		inv, err := Invert3(m)
		if err != nil {
			panic(fmt.Sprintf("color: gamut %s matrix is singular: %v", g, err))
		}
		fromXYZ[g] = inv
	}
	WhiteD65 = LinearToXYZ(GamutSRGB, Values{1, 1, 1})
}

func (g Gamut) String() string {
	if name, ok := gamutNames[g]; ok {
		return name
	}
	return fmt.Sprintf("Gamut(%d)", int(g))
}

// ParseGamut maps "srgb", "display-p3" or "rec2020" to a Gamut.
func ParseGamut(name string) (Gamut, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for g, gn := range gamutNames {
		if gn == n {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unsupported gamut %q", name)
}

// GamutNames lists the identifiers accepted by ParseGamut.
func GamutNames() []string {
	return []string{"srgb", "display-p3", "rec2020"}
}

// LinearToXYZ converts linear RGB in gamut g to XYZ.
func LinearToXYZ(g Gamut, v Values) Values {
	return MulMatrix(toXYZ[g], v)
}

// XYZToLinear converts XYZ to linear RGB in gamut g. The result is not clipped.
func XYZToLinear(g Gamut, xyz Values) Values {
	return MulMatrix(fromXYZ[g], xyz)
}

// Excess returns the summed distance by which each linear channel falls
// outside [0, 1]. It is zero exactly when the color is in gamut.
func Excess(linear Values) float64 {
	var e float64
	for _, c := range linear {
		switch {
		case c < 0:
			e += -c
		case c > 1:
			e += c - 1
		}
	}
	return e
}

// InGamut reports whether xyz falls inside gamut g, allowing eps slack per channel.
func InGamut(g Gamut, xyz Values, eps float64) bool {
	for _, c := range XYZToLinear(g, xyz) {
		if c < -eps || c > 1+eps {
			return false
		}
	}
	return true
}

// ClipLinear clamps each linear channel into [0, 1].
func ClipLinear(v Values) Values {
	return Values{clamp01(v[0]), clamp01(v[1]), clamp01(v[2])}
}

// MulMatrix returns m·v.
func MulMatrix(m [3][3]float64, v Values) Values {
	return Values{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// MulMatrices returns a·b.
func MulMatrices(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := range 3 {
		for j := range 3 {
			for k := range 3 {
				out[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return out
}

// Invert3 inverts a 3×3 matrix.
func Invert3(m [3][3]float64) ([3][3]float64, error) {
	dense := mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
	var inv mat.Dense
	if err := inv.Inverse(dense); err != nil {
		return [3][3]float64{}, err
	}
	var out [3][3]float64
	for i := range 3 {
		for j := range 3 {
			out[i][j] = inv.At(i, j)
		}
	}
	return out, nil
}

// Finite reports whether every channel is a finite number.
func Finite(v Values) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

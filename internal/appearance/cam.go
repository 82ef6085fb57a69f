// Package appearance implements the forward CIECAM02 and CAM16 color
// appearance models with their uniform color spaces (CAM02-UCS, CAM16-UCS),
// and the ICtCp encoding used by ΔE-ITP.
//
// Inputs are CIE XYZ with Y in [0, 1]; the models scale to Y=100 internally.
package appearance

import (
	"fmt"
	"math"
	"strings"

	"github.com/jsvensson/palettegen/internal/color"
)

// Model selects the chromatic adaptation and cone space of the pipeline.
type Model int

const (
	CAM02 Model = iota
	CAM16
)

func (m Model) String() string {
	switch m {
	case CAM02:
		return "cam02"
	case CAM16:
		return "cam16"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// ParseModel maps "cam02" or "cam16" to a Model.
func ParseModel(name string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cam02":
		return CAM02, nil
	case "cam16":
		return CAM16, nil
	}
	return 0, fmt.Errorf("unknown appearance model %q", name)
}

// Surround describes the relative luminance of the surround field.
type Surround struct {
	F  float64 // degree of adaptation factor
	C  float64 // impact of surround
	Nc float64 // chromatic induction factor
}

// Surround presets from CIE 159.
var (
	SurroundAverage = Surround{F: 1.0, C: 0.69, Nc: 1.0}
	SurroundDim     = Surround{F: 0.9, C: 0.59, Nc: 0.9}
	SurroundDark    = Surround{F: 0.8, C: 0.525, Nc: 0.8}
)

// ViewingConditions parameterize the appearance model.
type ViewingConditions struct {
	WhitePoint          color.Values // XYZ of the adopted white, Y=100
	AdaptingLuminance   float64      // LA in cd/m²
	BackgroundLuminance float64      // Yb, relative to white Y=100
	Surround            Surround
	Discounting         bool // discount the illuminant (D=1)
}

// DefaultViewingConditions is the fixed sRGB-like average surround preset:
// D65 white, LA=64, Yb=20.
func DefaultViewingConditions() ViewingConditions {
	return ViewingConditions{
		WhitePoint:          scale(color.WhiteD65, 100),
		AdaptingLuminance:   64,
		BackgroundLuminance: 20,
		Surround:            SurroundAverage,
	}
}

// UCS coefficients shared by CAM02-UCS and CAM16-UCS.
const (
	ucsC1 = 0.007
	ucsC2 = 0.0228
)

var (
	mCAT02 = [3][3]float64{
		{0.7328, 0.4296, -0.1624},
		{-0.7036, 1.6975, 0.0061},
		{0.0030, 0.0136, 0.9834},
	}
	mCAT16 = [3][3]float64{
		{0.401288, 0.650173, -0.051461},
		{-0.250268, 1.204414, 0.045854},
		{-0.002079, 0.048952, 0.953127},
	}
	mHPE = [3][3]float64{
		{0.38971, 0.68898, -0.07868},
		{-0.22981, 1.18340, 0.04641},
		{0, 0, 1},
	}
	// mCAT02ToHPE maps CAT02-adapted RGB back to XYZ and into HPE cone space.
	mCAT02ToHPE [3][3]float64
)

func init() {
	inv, err := color.Invert3(mCAT02)
	if err != nil {
		panic(fmt.Sprintf("appearance: CAT02 matrix is singular: %v", err))
	}
	mCAT02ToHPE = color.MulMatrices(mHPE, inv)
	defaultViews = [2]*View{
		CAM02: NewView(CAM02, DefaultViewingConditions()),
		CAM16: NewView(CAM16, DefaultViewingConditions()),
	}
}

var defaultViews [2]*View

// View holds the derived constants of a model under fixed viewing conditions.
// A View is immutable and safe for concurrent use.
type View struct {
	model Model
	d     color.Values // per-channel adaptation gains
	fl    float64
	n     float64
	z     float64
	nbb   float64
	ncb   float64
	c     float64
	nc    float64
	aw    float64
}

// NewView precomputes the model constants for vc.
func NewView(model Model, vc ViewingConditions) *View {
	la := vc.AdaptingLuminance
	k := 1 / (5*la + 1)
	k4 := k * k * k * k
	fl := 0.2*k4*(5*la) + 0.1*(1-k4)*(1-k4)*math.Cbrt(5*la)

	yw := vc.WhitePoint[1]
	n := vc.BackgroundLuminance / yw
	z := 1.48 + math.Sqrt(n)
	nbb := 0.725 * math.Pow(n, -0.2)

	d := 1.0
	if !vc.Discounting {
		d = vc.Surround.F * (1 - (1/3.6)*math.Exp((-la-42)/92))
		d = math.Min(math.Max(d, 0), 1)
	}

	rgbw := color.MulMatrix(catMatrix(model), vc.WhitePoint)
	var gains color.Values
	for i := range 3 {
		gains[i] = d*yw/rgbw[i] + 1 - d
	}

	v := &View{
		model: model,
		d:     gains,
		fl:    fl,
		n:     n,
		z:     z,
		nbb:   nbb,
		ncb:   nbb,
		c:     vc.Surround.C,
		nc:    vc.Surround.Nc,
	}
	aw := v.compressed(vc.WhitePoint)
	v.aw = v.achromatic(aw)
	return v
}

func catMatrix(m Model) [3][3]float64 {
	if m == CAM02 {
		return mCAT02
	}
	return mCAT16
}

// compressed returns the post-adaptation cone responses for XYZ (Y=100).
func (v *View) compressed(xyz color.Values) color.Values {
	rgb := color.MulMatrix(catMatrix(v.model), xyz)
	for i := range 3 {
		rgb[i] *= v.d[i]
	}
	if v.model == CAM02 {
		rgb = color.MulMatrix(mCAT02ToHPE, rgb)
	}
	for i := range 3 {
		rgb[i] = v.compress(rgb[i])
	}
	return rgb
}

func (v *View) compress(x float64) float64 {
	p := math.Pow(v.fl*math.Abs(x)/100, 0.42)
	return 400*math.Copysign(1, x)*p/(p+27.13) + 0.1
}

func (v *View) achromatic(rgb color.Values) float64 {
	return (2*rgb[0] + rgb[1] + rgb[2]/20 - 0.305) * v.nbb
}

// Correlates are the appearance correlates of a stimulus.
type Correlates struct {
	J float64 // lightness
	C float64 // chroma
	M float64 // colorfulness
	H float64 // hue angle in degrees [0, 360)
}

// Correlates computes J, C, M and h for XYZ with Y in [0, 1].
func (v *View) Correlates(xyz color.Values) Correlates {
	rgb := v.compressed(scale(xyz, 100))

	a := rgb[0] - 12*rgb[1]/11 + rgb[2]/11
	b := (rgb[0] + rgb[1] - 2*rgb[2]) / 9
	h := color.NormalizeHue(math.Atan2(b, a) * 180 / math.Pi)

	ratio := v.achromatic(rgb) / v.aw
	if ratio < 0 {
		ratio = 0
	}
	j := 100 * math.Pow(ratio, v.c*v.z)

	et := 0.25 * (math.Cos(h*math.Pi/180+2) + 3.8)
	var t float64
	if den := rgb[0] + rgb[1] + 21.0/20.0*rgb[2]; den > 1e-12 {
		t = (50000.0 / 13.0 * v.nc * v.ncb * et * math.Hypot(a, b)) / den
	}
	c := math.Pow(t, 0.9) * math.Sqrt(j/100) * math.Pow(1.64-math.Pow(0.29, v.n), 0.73)
	m := c * math.Pow(v.fl, 0.25)

	return Correlates{J: j, C: c, M: m, H: h}
}

// UCS maps XYZ (Y in [0, 1]) to the model's uniform color space (J', a', b').
func (v *View) UCS(xyz color.Values) color.Values {
	cr := v.Correlates(xyz)
	jp := (1 + 100*ucsC1) * cr.J / (1 + ucsC1*cr.J)
	mp := math.Log(1+ucsC2*cr.M) / ucsC2
	hr := cr.H * math.Pi / 180
	return color.Values{jp, mp * math.Cos(hr), mp * math.Sin(hr)}
}

// XYZToUCS runs the full forward pipeline for model m. A nil vc selects
// DefaultViewingConditions.
func XYZToUCS(m Model, xyz color.Values, vc *ViewingConditions) color.Values {
	if vc == nil {
		return defaultViews[m].UCS(xyz)
	}
	return NewView(m, *vc).UCS(xyz)
}

// DefaultView returns the shared view for m under DefaultViewingConditions.
func DefaultView(m Model) *View {
	return defaultViews[m]
}

func scale(v color.Values, k float64) color.Values {
	return color.Values{v[0] * k, v[1] * k, v[2] * k}
}

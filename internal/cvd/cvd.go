// Package cvd simulates color-vision deficiency with severity-interpolated
// 3×3 matrices.
//
// Two models are provided. Legacy applies fixed matrices directly to the
// values it is given, which for encoded sRGB means gamma space. Machado2009
// applies the published linear-light matrices. The two are intentionally
// numerically different; legacy output is pinned by fixtures.
package cvd

import (
	"fmt"
	"math"
	"strings"

	"github.com/jsvensson/palettegen/internal/color"
)

// Mat3 is a row-major 3×3 matrix.
type Mat3 = [3][3]float64

// Identity is the unit matrix.
var Identity = Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// Type is a deficiency type.
type Type int

const (
	None Type = iota
	Protan
	Deutan
	Tritan
)

var typeNames = [...]string{
	None:   "none",
	Protan: "protan",
	Deutan: "deutan",
	Tritan: "tritan",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Types lists every deficiency type in declaration order.
func Types() []Type {
	return []Type{None, Protan, Deutan, Tritan}
}

// TypeNames lists the identifiers ParseType recognizes.
func TypeNames() []string {
	return append([]string(nil), typeNames[:]...)
}

// ParseType maps "none", "protan", "deutan" or "tritan" to a Type. The
// long forms "protanopia", "deuteranopia" and "tritanopia" are accepted too.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "normal":
		return None, nil
	case "protan", "protanopia", "protanomaly":
		return Protan, nil
	case "deutan", "deuteranopia", "deuteranomaly":
		return Deutan, nil
	case "tritan", "tritanopia", "tritanomaly":
		return Tritan, nil
	}
	return None, fmt.Errorf("unknown deficiency type %q", name)
}

// Model selects the simulation matrices.
type Model int

const (
	Legacy Model = iota
	Machado2009
)

func (m Model) String() string {
	switch m {
	case Legacy:
		return "legacy"
	case Machado2009:
		return "machado2009"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// ModelNames lists the identifiers ParseModel recognizes.
func ModelNames() []string {
	return []string{"legacy", "machado2009"}
}

// ParseModel maps "legacy" or "machado2009" to a Model.
func ParseModel(name string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "legacy":
		return Legacy, nil
	case "machado2009", "machado":
		return Machado2009, nil
	}
	return Legacy, fmt.Errorf("unknown cvd model %q", name)
}

// Gamma-space dichromacy matrices of the legacy model.
var legacy = map[Type]Mat3{
	Protan: {
		{0.567, 0.433, 0},
		{0.558, 0.442, 0},
		{0, 0.242, 0.758},
	},
	Deutan: {
		{0.625, 0.375, 0},
		{0.7, 0.3, 0},
		{0, 0.3, 0.7},
	},
	Tritan: {
		{0.95, 0.05, 0},
		{0, 0.433, 0.567},
		{0, 0.475, 0.525},
	},
}

// Matrix returns the simulation matrix for deficiency t at severity in
// [0, 1]. Severity is clamped; None and severity 0 yield Identity.
func Matrix(t Type, severity float64, m Model) Mat3 {
	if t == None || math.IsNaN(severity) {
		return Identity
	}
	s := math.Min(math.Max(severity, 0), 1)

	switch m {
	case Machado2009:
		table, ok := machado[t]
		if !ok {
			return Identity
		}
		pos := s * 10
		lo := int(math.Floor(pos))
		if lo >= 10 {
			return table[10]
		}
		return lerp(table[lo], table[lo+1], pos-float64(lo))
	default:
		full, ok := legacy[t]
		if !ok {
			return Identity
		}
		return lerp(Identity, full, s)
	}
}

func lerp(a, b Mat3, f float64) Mat3 {
	if f == 0 {
		return a
	}
	if f == 1 {
		return b
	}
	var out Mat3
	for i := range 3 {
		for j := range 3 {
			out[i][j] = a[i][j] + (b[i][j]-a[i][j])*f
		}
	}
	return out
}

// SimulateSRGB simulates deficiency on sRGB-encoded values in [0, 1].
// Legacy applies its matrix to the encoded values; Machado2009 linearizes,
// applies, and re-encodes.
func SimulateSRGB(v color.Values, t Type, severity float64, m Model) color.Values {
	if t == None {
		return v
	}
	mat := Matrix(t, severity, m)
	if m == Machado2009 {
		return color.LinearToSRGB(color.MulMatrix(mat, color.SRGBToLinear(v)))
	}
	return color.MulMatrix(mat, v)
}

// SimulateLinear applies the simulation matrix directly to v. Callers that
// pass linear values to the legacy model get its gamma-space matrix applied
// to linear light, which is the historical behavior the objective relies on.
func SimulateLinear(v color.Values, t Type, severity float64, m Model) color.Values {
	if t == None {
		return v
	}
	return color.MulMatrix(Matrix(t, severity, m), v)
}

// Simulate simulates deficiency on a packed color and quantizes the result.
func Simulate(c color.Color, t Type, severity float64, m Model) color.Color {
	return color.FromSRGB(SimulateSRGB(c.Values(), t, severity, m))
}

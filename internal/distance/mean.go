package distance

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Epsilon floors every distance before aggregation.
const Epsilon = 1e-9

// MeanKind selects how a distance multiset reduces to one scalar.
type MeanKind int

const (
	Minimum MeanKind = iota
	Arithmetic
	Quadratic
	Geometric
	Harmonic
	Power
	Lehmer
)

var meanNames = [...]string{
	Minimum:    "minimum",
	Arithmetic: "arithmetic",
	Quadratic:  "quadratic",
	Geometric:  "geometric",
	Harmonic:   "harmonic",
	Power:      "power",
	Lehmer:     "lehmer",
}

func (k MeanKind) String() string {
	if k >= 0 && int(k) < len(meanNames) {
		return meanNames[k]
	}
	return fmt.Sprintf("MeanKind(%d)", int(k))
}

// MeanNames lists the identifiers ParseMean recognizes.
func MeanNames() []string {
	return append([]string(nil), meanNames[:]...)
}

// ParseMean maps an identifier such as "harmonic" to a MeanKind.
func ParseMean(name string) (MeanKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, mn := range meanNames {
		if mn == n {
			return MeanKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mean %q", name)
}

// UsesExponent reports whether k reads the exponent p.
func (k MeanKind) UsesExponent() bool {
	return k == Power || k == Lehmer
}

// Aggregate reduces values with mean kind k. p is the exponent for Power
// and Lehmer. Non-finite and non-positive inputs are floored to Epsilon; an
// empty input aggregates to 0.
func Aggregate(values []float64, k MeanKind, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	v := make([]float64, len(values))
	for i, x := range values {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < Epsilon {
			x = Epsilon
		}
		v[i] = x
	}

	switch k {
	case Minimum:
		return floats.Min(v)
	case Arithmetic:
		return stat.Mean(v, nil)
	case Quadratic:
		return math.Sqrt(floats.Dot(v, v) / float64(len(v)))
	case Geometric:
		return stat.GeometricMean(v, nil)
	case Harmonic:
		return stat.HarmonicMean(v, nil)
	case Power:
		if math.Abs(p) < Epsilon {
			return stat.GeometricMean(v, nil)
		}
		var sum float64
		for _, x := range v {
			sum += math.Pow(x, p)
		}
		return math.Pow(sum/float64(len(v)), 1/p)
	case Lehmer:
		var num, den float64
		for _, x := range v {
			xp := math.Pow(x, p)
			num += xp * x
			den += xp
		}
		return num / den
	}
	return floats.Min(v)
}

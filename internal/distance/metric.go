// Package distance computes perceptual color differences and reduces
// distance multisets to a single score with generalized means.
package distance

import (
	"fmt"
	"math"
	"strings"

	"github.com/jsvensson/palettegen/internal/appearance"
	"github.com/jsvensson/palettegen/internal/color"
)

// Metric selects a coordinate space and a difference formula.
type Metric int

const (
	DE2000 Metric = iota
	Lab76
	OKLab76
	CAM02UCS
	CAM16UCS
	DEITP
)

var metricNames = [...]string{
	DE2000:   "de2000",
	Lab76:    "lab76",
	OKLab76:  "oklab76",
	CAM02UCS: "cam02ucs",
	CAM16UCS: "cam16ucs",
	DEITP:    "deitp",
}

func (m Metric) String() string {
	if m >= 0 && int(m) < len(metricNames) {
		return metricNames[m]
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// MetricNames lists the identifiers ParseMetric recognizes.
func MetricNames() []string {
	return append([]string(nil), metricNames[:]...)
}

// ParseMetric maps an identifier to a Metric. Unknown identifiers fall back
// to DE2000 with ok=false; callers are expected to report the fallback.
func ParseMetric(name string) (m Metric, ok bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, mn := range metricNames {
		if mn == n {
			return Metric(i), true
		}
	}
	return DE2000, false
}

// Coords maps XYZ (D65, Y in [0, 1]) into the coordinate space metric m
// measures in.
func Coords(m Metric, xyz color.Values) color.Values {
	switch m {
	case DE2000, Lab76:
		return color.XYZToLab(xyz)
	case OKLab76:
		return color.XYZToOKLab(xyz)
	case CAM02UCS:
		return appearance.DefaultView(appearance.CAM02).UCS(xyz)
	case CAM16UCS:
		return appearance.DefaultView(appearance.CAM16).UCS(xyz)
	case DEITP:
		return appearance.XYZToICtCp(xyz, appearance.DefaultPeakLuminance)
	}
	return color.XYZToLab(xyz)
}

// Between returns the difference of two points already mapped by Coords.
func Between(a, b color.Values, m Metric) float64 {
	switch m {
	case DE2000:
		return CIEDE2000(a, b)
	case DEITP:
		di := a[0] - b[0]
		dt := 0.5 * (a[1] - b[1])
		dp := a[2] - b[2]
		return 720 * math.Sqrt(di*di+dt*dt+dp*dp)
	}
	return Euclidean(a, b)
}

// Euclidean is the straight-line distance between two triples.
func Euclidean(a, b color.Values) float64 {
	d0 := a[0] - b[0]
	d1 := a[1] - b[1]
	d2 := a[2] - b[2]
	return math.Sqrt(d0*d0 + d1*d1 + d2*d2)
}

// Colors measures two packed colors under metric m.
func Colors(a, b color.Color, m Metric) float64 {
	xa := color.LinearToXYZ(color.GamutSRGB, a.Linear())
	xb := color.LinearToXYZ(color.GamutSRGB, b.Linear())
	return Between(Coords(m, xa), Coords(m, xb), m)
}

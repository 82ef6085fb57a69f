package bounds

import (
	"math"

	"github.com/jsvensson/palettegen/internal/color"
	"gonum.org/v1/gonum/stat"
)

// DefaultZScores are the iso-density levels drawn for soft constraints: the
// 50%, 80% and 95% central regions of a normal distribution.
var DefaultZScores = []float64{0.6745, 1.2816, 1.96}

// Contour is an axis-aligned Gaussian iso-density region around the palette,
// in normalized units (turns for hue). It is metadata only.
type Contour struct {
	Z      float64
	Mean   color.Values
	Radius color.Values // z·σ per channel
}

// Contours fits an independent Gaussian per channel to points and returns
// one contour per z-score. The hue channel uses circular statistics.
// Fewer than two points yield no contours.
func Contours(points []color.Values, hue int, zs ...float64) []Contour {
	if len(points) < 2 {
		return nil
	}
	var mean, sigma color.Values
	vals := make([]float64, len(points))
	for ch := range 3 {
		for i, p := range points {
			vals[i] = p[ch]
		}
		if ch == hue {
			mean[ch], sigma[ch] = circularMeanStd(vals)
			continue
		}
		mean[ch], sigma[ch] = stat.PopMeanStdDev(vals, nil)
	}

	out := make([]Contour, 0, len(zs))
	for _, z := range zs {
		var r color.Values
		for ch := range 3 {
			r[ch] = z * sigma[ch]
		}
		out = append(out, Contour{Z: z, Mean: mean, Radius: r})
	}
	return out
}

// circularMeanStd returns the circular mean and standard deviation of
// values in turns.
func circularMeanStd(turns []float64) (mean, std float64) {
	var sx, sy float64
	for _, t := range turns {
		a := t * twoPi
		sx += math.Cos(a)
		sy += math.Sin(a)
	}
	n := float64(len(turns))
	sx /= n
	sy /= n
	mean = wrapTurns(math.Atan2(sy, sx) / twoPi)
	r := math.Min(math.Hypot(sx, sy), 1)
	if r <= 0 {
		return mean, 0.5
	}
	return mean, math.Sqrt(-2*math.Log(r)) / twoPi
}

// Contains reports whether normalized point p lies inside the contour
// ellipsoid. Channels with zero radius are ignored.
func (c Contour) Contains(p color.Values, hue int) bool {
	var sum float64
	for ch := range 3 {
		if c.Radius[ch] <= 0 {
			continue
		}
		d := p[ch] - c.Mean[ch]
		if ch == hue {
			d = wrapTurns(d+0.5) - 0.5
		}
		sum += (d / c.Radius[ch]) * (d / c.Radius[ch])
	}
	return sum <= 1
}

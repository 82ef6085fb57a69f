package objective

import (
	"math"

	"github.com/jsvensson/palettegen/internal/bounds"
	"github.com/jsvensson/palettegen/internal/color"
)

// The transform layer maps the solver's unconstrained parameters onto
// colors inside the bounds hull:
//
//   - linear channels: lo + clamp01(logistic(x))·(hi-lo)
//   - the lightness channel, for more than one candidate: a running sum
//     s₀ = x₀, sᵢ = sᵢ₋₁ + exp(xᵢ) before the logistic, so decoded lightness
//     increases with the candidate index
//   - the hue channel: x mod 2π on the full circle, otherwise
//     start + logistic(x)·span wrapped to [0, 2π)

const twoPi = 2 * math.Pi

// Logistic is 1/(1+e^-x).
func Logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Logit is the inverse of Logistic. p is clamped away from 0 and 1.
func Logit(p float64) float64 {
	const eps = 1e-12
	p = math.Min(math.Max(p, eps), 1-eps)
	return math.Log(p / (1 - p))
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

// decodeNormalized maps x (channel-major, x[ch·n+i]) to normalized points:
// linear channels in [0, 1], the hue channel in turns.
func (o *Objective) decodeNormalized(x []float64) []color.Values {
	n := o.n
	out := make([]color.Values, n)
	for ch := range 3 {
		params := x[ch*n : (ch+1)*n]
		hull := o.hulls[ch]
		switch {
		case ch == o.hue:
			for i, p := range params {
				out[i][ch] = decodeHue(p, hull) / twoPi
			}
		case ch == o.lightness && n > 1:
			s := params[0]
			for i, p := range params {
				if i > 0 {
					s += math.Exp(p)
				}
				out[i][ch] = hull.Lo + clamp01(Logistic(s))*hull.Span()
			}
		default:
			for i, p := range params {
				out[i][ch] = hull.Lo + clamp01(Logistic(p))*hull.Span()
			}
		}
	}
	return out
}

// decodeHue returns an angle in [0, 2π).
func decodeHue(p float64, hull bounds.Interval) float64 {
	span := hull.Span()
	if span >= twoPi-1e-12 {
		return bounds.WrapRadians(p)
	}
	if span < 1e-12 {
		return bounds.WrapRadians(hull.Lo)
	}
	return bounds.WrapRadians(hull.Lo + Logistic(p)*span)
}

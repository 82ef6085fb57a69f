// Package objective scores candidate palettes for the optimizer.
//
// An Objective closes over the existing palette, the bounds and the scoring
// configuration. It maps an unconstrained parameter vector to colors (see
// the transform layer in transform.go) and returns
//
//	score = -(weighted aggregate distance) + penalty
//
// so lower is better. An Objective is immutable and safe for concurrent use.
package objective

import (
	"errors"
	"fmt"
	"math"

	"github.com/jsvensson/palettegen/internal/bounds"
	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/cvd"
	"github.com/jsvensson/palettegen/internal/distance"
)

// Penalty weights. The sum is divided by PenaltyNormalization so magnitudes
// stay comparable to the historical scores.
const (
	RangeWeight          = 1e5
	DarkWeight           = 1e3
	GamutWeight          = 1e5
	PenaltyNormalization = 25.0
	// DarkThreshold is the normalized lightness below which candidates are
	// penalized.
	DarkThreshold = 0.05
)

// State is one CVD condition scored by the objective.
type State struct {
	Type   cvd.Type
	Weight float64
}

// Settings configure New.
type Settings struct {
	Space        color.Space
	Gamut        color.Gamut
	NColors      int
	Existing     []color.Color
	Bounds       *bounds.Bounds
	Metric       distance.Metric
	Mean         distance.MeanKind
	MeanExponent float64
	States       []State
	Severity     float64
	Model        cvd.Model
	ClipToGamut  bool
}

// Breakdown splits a score into its terms.
type Breakdown struct {
	Score    float64
	Distance float64
	Penalty  float64
}

// Objective is the function the solver minimizes.
type Objective struct {
	space     color.Space
	gamut     color.Gamut
	ranges    [3]color.Range
	n         int
	hue       int
	lightness int
	bounds    *bounds.Bounds
	hulls     [3]bounds.Interval
	metric    distance.Metric
	mean      distance.MeanKind
	p         float64
	severity  float64
	model     cvd.Model
	clip      bool
	states    []State // positive weights, normalized to sum 1
	existing  []color.Color
	// existingCoords[s][j] are metric coordinates of existing color j under
	// states[s]; plainCoords are the unsimulated coordinates.
	existingCoords [][]color.Values
	plainCoords    []color.Values
}

// New validates s and precomputes the existing palette's coordinates.
func New(s Settings) (*Objective, error) {
	if !s.Space.Valid() {
		return nil, &color.UnsupportedSpaceError{Space: s.Space.String()}
	}
	if s.NColors < 1 {
		return nil, fmt.Errorf("colors to add must be at least 1, got %d", s.NColors)
	}
	if s.Bounds == nil {
		return nil, errors.New("bounds are required")
	}

	var total float64
	for _, st := range s.States {
		if st.Weight < 0 || math.IsNaN(st.Weight) {
			return nil, fmt.Errorf("cvd weight for %s must be non-negative", st.Type)
		}
		total += st.Weight
	}
	if total <= 0 {
		return nil, errors.New("at least one cvd weight must be positive")
	}

	o := &Objective{
		space:     s.Space,
		gamut:     s.Gamut,
		ranges:    color.GamutRanges(s.Space, s.Gamut),
		n:         s.NColors,
		hue:       s.Space.HueChannel(),
		lightness: s.Space.LightnessChannel(),
		bounds:    s.Bounds,
		metric:    s.Metric,
		mean:      s.Mean,
		p:         s.MeanExponent,
		severity:  s.Severity,
		model:     s.Model,
		clip:      s.ClipToGamut,
		existing:  append([]color.Color(nil), s.Existing...),
	}
	for ch := range 3 {
		o.hulls[ch] = s.Bounds.Hull(ch)
	}
	for _, st := range s.States {
		if st.Weight > 0 {
			o.states = append(o.states, State{Type: st.Type, Weight: st.Weight / total})
		}
	}

	o.existingCoords = make([][]color.Values, len(o.states))
	for si, st := range o.states {
		coords := make([]color.Values, len(o.existing))
		for j, c := range o.existing {
			coords[j] = o.coords(c.Linear(), st.Type)
		}
		o.existingCoords[si] = coords
	}
	o.plainCoords = make([]color.Values, len(o.existing))
	for j, c := range o.existing {
		o.plainCoords[j] = o.coords(c.Linear(), cvd.None)
	}
	return o, nil
}

// Dim is the parameter vector length: candidates × channels.
func (o *Objective) Dim() int {
	return o.n * 3
}

// NColors is the number of candidates decoded from a parameter vector.
func (o *Objective) NColors() int {
	return o.n
}

// Space is the color space candidates are decoded into.
func (o *Objective) Space() color.Space {
	return o.space
}

// Bounds returns the bounds the objective was built with.
func (o *Objective) Bounds() *bounds.Bounds {
	return o.bounds
}

// coords maps linear sRGB through the CVD state into metric coordinates.
func (o *Objective) coords(linear color.Values, t cvd.Type) color.Values {
	sim := cvd.SimulateLinear(linear, t, o.severity, o.model)
	return distance.Coords(o.metric, color.LinearToXYZ(color.GamutSRGB, sim))
}

// Decode maps x to candidate values in the objective's color space.
func (o *Objective) Decode(x []float64) []color.Values {
	norm := o.decodeNormalized(x)
	out := make([]color.Values, len(norm))
	for i, p := range norm {
		out[i] = color.Unscale(p, o.space, o.ranges)
	}
	return out
}

// Colors decodes x to packed sRGB colors, clipping out-of-gamut channels.
func (o *Objective) Colors(x []float64) []color.Color {
	vals := o.Decode(x)
	out := make([]color.Color, len(vals))
	for i, v := range vals {
		// Space was validated in New.
		out[i], _ = color.FromValues(v, o.space)
	}
	return out
}

// candidate is a decoded candidate prepared for scoring.
type candidate struct {
	linear  color.Values // linear sRGB after optional gamut clipping
	penalty float64      // unweighted-sum contribution before normalization
}

func (o *Objective) prepare(x []float64) []candidate {
	norm := o.decodeNormalized(x)
	out := make([]candidate, len(norm))
	for i, p := range norm {
		var rangeExcess float64
		for ch := range 3 {
			v := p[ch]
			if ch == o.hue {
				v *= twoPi
			}
			d := o.bounds.Distance(ch, v)
			if ch == o.hue {
				d /= twoPi
			}
			rangeExcess += d * d
		}

		var dark float64
		if o.lightness >= 0 && p[o.lightness] < DarkThreshold {
			dark = DarkThreshold - p[o.lightness]
		}

		// Space was validated in New.
		xyz, _ := color.ToXYZ(color.Unscale(p, o.space, o.ranges), o.space)
		gl := color.XYZToLinear(o.gamut, xyz)
		gamut := color.Excess(gl)
		if o.clip {
			xyz = color.LinearToXYZ(o.gamut, color.ClipLinear(gl))
		}

		out[i] = candidate{
			linear:  color.XYZToLinear(color.GamutSRGB, xyz),
			penalty: RangeWeight*rangeExcess + DarkWeight*dark*dark + GamutWeight*gamut*gamut,
		}
	}
	return out
}

// stateCoords maps candidates into metric coordinates under states[si].
func (o *Objective) stateCoords(cands []candidate, si int) []color.Values {
	coords := make([]color.Values, len(cands))
	for i, c := range cands {
		coords[i] = o.coords(c.linear, o.states[si].Type)
	}
	return coords
}

// pairDistances lists every existing×candidate and candidate×candidate
// distance, leaving out pairs that involve skip.
func (o *Objective) pairDistances(existing, cands []color.Values, skip int) []float64 {
	m := len(existing)
	d := make([]float64, 0, m*len(cands)+len(cands)*(len(cands)-1)/2)
	for j, e := range existing {
		if j == skip {
			continue
		}
		for i, c := range cands {
			if m+i == skip {
				continue
			}
			d = append(d, distance.Between(e, c, o.metric))
		}
	}
	for i := range cands {
		if m+i == skip {
			continue
		}
		for k := i + 1; k < len(cands); k++ {
			if m+k == skip {
				continue
			}
			d = append(d, distance.Between(cands[i], cands[k], o.metric))
		}
	}
	return d
}

// weightedDistance aggregates each state's pair distances and combines the
// states by weight. skip excludes one color (existing indices first, then
// candidates); -1 keeps all.
func (o *Objective) weightedDistance(perState [][]color.Values, skip int) float64 {
	var total float64
	for si, st := range o.states {
		d := o.pairDistances(o.existingCoords[si], perState[si], skip)
		total += st.Weight * distance.Aggregate(d, o.mean, o.p)
	}
	return total
}

// Score evaluates x and returns the score with its terms.
func (o *Objective) Score(x []float64) Breakdown {
	cands := o.prepare(x)
	var penalty float64
	for _, c := range cands {
		penalty += c.penalty
	}
	penalty /= PenaltyNormalization

	perState := make([][]color.Values, len(o.states))
	for si := range o.states {
		perState[si] = o.stateCoords(cands, si)
	}
	dist := o.weightedDistance(perState, -1)

	return Breakdown{Score: -dist + penalty, Distance: dist, Penalty: penalty}
}

// Evaluate returns Score(x).Score. It is the function handed to the solver.
func (o *Objective) Evaluate(x []float64) float64 {
	return o.Score(x).Score
}

// Detail is the read-only diagnosis of one color in a scored palette.
type Detail struct {
	Index    int // position among existing colors, or among candidates
	Existing bool
	Color    color.Color
	// Influence is the weighted aggregate with the color minus without it.
	Influence float64
	// Nearest indexes the combined list (existing first, then candidates)
	// of the closest other color in the unsimulated state.
	Nearest         int
	NearestDistance float64
}

// Influence diagnoses every existing and candidate color for x.
func (o *Objective) Influence(x []float64) []Detail {
	cands := o.prepare(x)
	colors := o.Colors(x)
	perState := make([][]color.Values, len(o.states))
	for si := range o.states {
		perState[si] = o.stateCoords(cands, si)
	}
	with := o.weightedDistance(perState, -1)

	plain := append([]color.Values(nil), o.plainCoords...)
	for _, c := range cands {
		plain = append(plain, o.coords(c.linear, cvd.None))
	}

	m := len(o.existing)
	details := make([]Detail, 0, len(plain))
	for k := range plain {
		d := Detail{Index: k, Existing: k < m, Nearest: -1, NearestDistance: math.Inf(1)}
		if k < m {
			d.Color = o.existing[k]
		} else {
			d.Index = k - m
			d.Color = colors[k-m]
		}
		d.Influence = with - o.weightedDistance(perState, k)

		for j := range plain {
			if j == k {
				continue
			}
			if dist := distance.Between(plain[k], plain[j], o.metric); dist < d.NearestDistance {
				d.Nearest, d.NearestDistance = j, dist
			}
		}
		if d.Nearest < 0 {
			d.NearestDistance = 0
		}
		details = append(details, d)
	}
	return details
}

// PalettePoints converts colors to normalized points in space s for the
// bounds engine: linear channels in [0, 1] and the hue channel in turns.
func PalettePoints(colors []color.Color, s color.Space, g color.Gamut) ([]color.Values, error) {
	ranges := color.GamutRanges(s, g)
	out := make([]color.Values, 0, len(colors))
	for _, c := range colors {
		v, err := color.ConvertValues(c.Values(), color.SpaceRGB, s)
		if err != nil {
			return nil, err
		}
		out = append(out, color.Normalize(v, s, ranges))
	}
	return out, nil
}

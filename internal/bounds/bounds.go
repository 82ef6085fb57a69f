// Package bounds derives per-channel admissible regions for new colors from
// the colors already in a palette.
//
// Linear channels are expressed in normalized [0, 1] units. The hue channel
// is expressed in radians; its intervals are arcs whose Lo lies in [0, 2π)
// and whose Hi may exceed 2π when the arc wraps.
package bounds

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/jsvensson/palettegen/internal/color"
)

const (
	twoPi = 2 * math.Pi
	// spanEpsilon guards divisions by degenerate hue spans.
	spanEpsilon = 1e-12
)

// Topology selects one interval per channel or a union of intervals.
type Topology int

const (
	Contiguous Topology = iota
	Discontiguous
)

func (t Topology) String() string {
	switch t {
	case Contiguous:
		return "contiguous"
	case Discontiguous:
		return "discontiguous"
	}
	return fmt.Sprintf("Topology(%d)", int(t))
}

// ParseTopology maps "contiguous" or "discontiguous" to a Topology.
func ParseTopology(name string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "contiguous":
		return Contiguous, nil
	case "discontiguous":
		return Discontiguous, nil
	}
	return Contiguous, fmt.Errorf("unknown topology %q", name)
}

// Mode selects whether a channel's intervals constrain the optimizer.
type Mode int

const (
	Hard Mode = iota
	Soft
)

func (m Mode) String() string {
	switch m {
	case Hard:
		return "hard"
	case Soft:
		return "soft"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps "hard" or "soft" to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hard":
		return Hard, nil
	case "soft":
		return Soft, nil
	}
	return Hard, fmt.Errorf("unknown constraint mode %q", name)
}

// Aesthetic adds symmetric copies of every palette point before bounds are
// computed.
type Aesthetic int

const (
	NoAesthetic Aesthetic = iota
	Complementary
	Triadic
	Tetradic
)

var aestheticNames = [...]string{
	NoAesthetic:   "none",
	Complementary: "complementary",
	Triadic:       "triadic",
	Tetradic:      "tetradic",
}

func (a Aesthetic) String() string {
	if a >= 0 && int(a) < len(aestheticNames) {
		return aestheticNames[a]
	}
	return fmt.Sprintf("Aesthetic(%d)", int(a))
}

// AestheticNames lists the identifiers ParseAesthetic recognizes.
func AestheticNames() []string {
	return append([]string(nil), aestheticNames[:]...)
}

// ParseAesthetic maps an identifier such as "triadic" to an Aesthetic.
func ParseAesthetic(name string) (Aesthetic, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, an := range aestheticNames {
		if an == n {
			return Aesthetic(i), nil
		}
	}
	return NoAesthetic, fmt.Errorf("unknown aesthetic %q", name)
}

// Offsets returns the rotations, in turns, that the aesthetic adds.
func (a Aesthetic) Offsets() []float64 {
	switch a {
	case Complementary:
		return []float64{0.5}
	case Triadic:
		return []float64{1.0 / 3.0, 2.0 / 3.0}
	case Tetradic:
		return []float64{0.25, 0.5, 0.75}
	}
	return nil
}

// Interval is a closed range. For the hue channel it is an arc in radians.
type Interval struct {
	Lo, Hi float64
}

// Span returns Hi-Lo.
func (iv Interval) Span() float64 {
	return iv.Hi - iv.Lo
}

// Channel holds the computed intervals of one channel.
type Channel struct {
	Hue       bool
	Mode      Mode
	Intervals []Interval
}

// Full reports whether the channel admits its whole range.
func (c Channel) Full() bool {
	if len(c.Intervals) != 1 {
		return false
	}
	iv := c.Intervals[0]
	if c.Hue {
		return iv.Span() >= twoPi-spanEpsilon
	}
	return iv.Lo <= 0 && iv.Hi >= 1
}

func fullChannel(hue bool, mode Mode) Channel {
	if hue {
		return Channel{Hue: true, Mode: mode, Intervals: []Interval{{0, twoPi}}}
	}
	return Channel{Mode: mode, Intervals: []Interval{{0, 1}}}
}

// Settings configures Compute.
type Settings struct {
	Space     color.Space
	Widths    [3]float64 // 0 leaves the channel unconstrained, 1 snaps to the observed extent
	Modes     [3]Mode
	Topology  Topology
	Aesthetic Aesthetic
}

// Bounds are the admissible regions for every channel. Bounds are immutable
// once computed and safe for concurrent use.
type Bounds struct {
	Space    color.Space
	Topology Topology
	Channels [3]Channel
	Contours []Contour
}

// Compute derives bounds from palette points normalized per channel to
// [0, 1] (the hue channel in turns).
func Compute(points []color.Values, s Settings) *Bounds {
	hue := s.Space.HueChannel()
	pts := expandAesthetic(points, s)

	b := &Bounds{Space: s.Space, Topology: s.Topology}
	for ch := range 3 {
		isHue := ch == hue
		width := s.Widths[ch]
		if width <= 0 || len(pts) == 0 || math.IsNaN(width) {
			b.Channels[ch] = fullChannel(isHue, s.Modes[ch])
			continue
		}
		width = math.Min(width, 1)

		vals := make([]float64, len(pts))
		for i, p := range pts {
			vals[i] = p[ch]
		}

		var ivs []Interval
		switch {
		case isHue && s.Topology == Discontiguous:
			ivs = hueDiscontiguous(vals, width)
		case isHue:
			ivs = hueContiguous(vals, width)
		case s.Topology == Discontiguous:
			ivs = linearDiscontiguous(vals, width)
		default:
			ivs = linearContiguous(vals, width)
		}
		b.Channels[ch] = Channel{Hue: isHue, Mode: s.Modes[ch], Intervals: ivs}
	}
	b.Contours = Contours(points, hue, DefaultZScores...)
	return b
}

// expandAesthetic adds rotated copies of each point. Hue spaces rotate the
// hue channel; Lab and OKLab rotate the opponent pair about the neutral axis.
func expandAesthetic(points []color.Values, s Settings) []color.Values {
	offsets := s.Aesthetic.Offsets()
	if len(offsets) == 0 {
		return points
	}
	hue := s.Space.HueChannel()
	ca, cb, opponent := s.Space.OpponentChannels()
	if hue < 0 && !opponent {
		return points
	}

	out := slices.Clone(points)
	for _, p := range points {
		for _, off := range offsets {
			q := p
			if hue >= 0 {
				q[hue] = wrapTurns(p[hue] + off)
			} else {
				theta := off * twoPi
				x, y := p[ca]-0.5, p[cb]-0.5
				q[ca] = 0.5 + x*math.Cos(theta) - y*math.Sin(theta)
				q[cb] = 0.5 + x*math.Sin(theta) + y*math.Cos(theta)
			}
			out = append(out, q)
		}
	}
	return out
}

func linearContiguous(vals []float64, width float64) []Interval {
	lo, hi := slices.Min(vals), slices.Max(vals)
	return []Interval{{width * lo, 1 + width*(hi-1)}}
}

func linearDiscontiguous(vals []float64, width float64) []Interval {
	r := (1 - width) / 2
	ivs := make([]Interval, 0, len(vals))
	for _, v := range vals {
		ivs = append(ivs, Interval{math.Max(0, v-r), math.Min(1, v+r)})
	}
	return mergeLinear(ivs)
}

func mergeLinear(ivs []Interval) []Interval {
	slices.SortFunc(ivs, func(a, b Interval) int {
		switch {
		case a.Lo < b.Lo:
			return -1
		case a.Lo > b.Lo:
			return 1
		}
		return 0
	})
	out := []Interval{ivs[0]}
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if iv.Lo <= last.Hi {
			last.Hi = math.Max(last.Hi, iv.Hi)
			continue
		}
		out = append(out, iv)
	}
	return out
}

// hueContiguous keeps the arc opposite the largest circular gap between the
// observed hues and widens it symmetrically by (1-width) of the remainder.
func hueContiguous(turns []float64, width float64) []Interval {
	angles := make([]float64, len(turns))
	for i, t := range turns {
		angles[i] = wrapTurns(t) * twoPi
	}
	slices.Sort(angles)

	start, observed := observedArc(angles)
	span := observed + (1-width)*(twoPi-observed)
	if span >= twoPi-spanEpsilon {
		return []Interval{{0, twoPi}}
	}
	lo := wrapRadians(start - (span-observed)/2)
	return []Interval{{lo, lo + span}}
}

// observedArc returns the smallest arc covering all sorted angles, as its
// start angle and span.
func observedArc(sorted []float64) (start, span float64) {
	n := len(sorted)
	if n == 1 {
		return sorted[0], 0
	}
	bestGap, bestIdx := -1.0, 0
	for i := range n {
		next := sorted[(i+1)%n]
		gap := next - sorted[i]
		if i == n-1 {
			gap += twoPi
		}
		if gap > bestGap {
			bestGap, bestIdx = gap, i
		}
	}
	return sorted[(bestIdx+1)%n], twoPi - bestGap
}

func hueDiscontiguous(turns []float64, width float64) []Interval {
	r := (1 - width) / 2 * twoPi
	if r >= math.Pi {
		return []Interval{{0, twoPi}}
	}
	arcs := make([]Interval, 0, len(turns))
	for _, t := range turns {
		c := wrapTurns(t) * twoPi
		lo := wrapRadians(c - r)
		arcs = append(arcs, Interval{lo, lo + 2*r})
	}
	return mergeArcs(arcs)
}

// mergeArcs merges overlapping arcs, including overlap across 2π.
func mergeArcs(arcs []Interval) []Interval {
	merged := mergeLinear(arcs)

	// An arc that wraps past 2π may swallow arcs at the start of the circle.
	for len(merged) > 1 {
		last := merged[len(merged)-1]
		first := merged[0]
		if last.Hi-twoPi < first.Lo {
			break
		}
		merged[len(merged)-1].Hi = math.Max(last.Hi, first.Hi+twoPi)
		merged = merged[1:]
	}
	if len(merged) == 1 && merged[0].Span() >= twoPi-spanEpsilon {
		return []Interval{{0, twoPi}}
	}
	return merged
}

// Effective returns the intervals the optimizer honors for channel ch. Soft
// channels are reported as their full range.
func (b *Bounds) Effective(ch int) Channel {
	c := b.Channels[ch]
	if c.Mode == Soft {
		return fullChannel(c.Hue, Soft)
	}
	return c
}

// Hull returns the single interval the decoder spans for channel ch: the
// outer extent of the effective intervals, or for hue the arc opposite the
// largest gap between them.
func (b *Bounds) Hull(ch int) Interval {
	c := b.Effective(ch)
	if !c.Hue {
		return Interval{c.Intervals[0].Lo, c.Intervals[len(c.Intervals)-1].Hi}
	}
	if len(c.Intervals) == 1 {
		return c.Intervals[0]
	}
	bestGap, bestIdx := -1.0, 0
	n := len(c.Intervals)
	for i := range n {
		next := c.Intervals[(i+1)%n].Lo
		if i == n-1 {
			next += twoPi
		}
		if gap := next - c.Intervals[i].Hi; gap > bestGap {
			bestGap, bestIdx = gap, i
		}
	}
	first := c.Intervals[(bestIdx+1)%n]
	last := c.Intervals[bestIdx]
	hi := last.Hi
	for hi < first.Lo {
		hi += twoPi
	}
	return Interval{first.Lo, hi}
}

// Distance returns how far v lies outside the effective intervals of channel
// ch, zero inside. v is normalized for linear channels and radians for hue.
func (b *Bounds) Distance(ch int, v float64) float64 {
	c := b.Effective(ch)
	best := math.Inf(1)
	for _, iv := range c.Intervals {
		var d float64
		if c.Hue {
			d = arcDistance(iv, v)
		} else {
			switch {
			case v < iv.Lo:
				d = iv.Lo - v
			case v > iv.Hi:
				d = v - iv.Hi
			}
		}
		best = math.Min(best, d)
	}
	return best
}

func arcDistance(iv Interval, angle float64) float64 {
	if iv.Span() >= twoPi-spanEpsilon {
		return 0
	}
	off := wrapRadians(angle - iv.Lo)
	if off <= iv.Span() {
		return 0
	}
	return math.Min(off-iv.Span(), twoPi-off)
}

// Contains reports whether normalized point p lies within every hard
// channel's intervals.
func (b *Bounds) Contains(p color.Values) bool {
	for ch := range 3 {
		v := p[ch]
		if b.Channels[ch].Hue {
			v = wrapTurns(v) * twoPi
		}
		if b.Distance(ch, v) > 0 {
			return false
		}
	}
	return true
}

func wrapTurns(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	t -= math.Floor(t)
	if t >= 1 {
		t = 0
	}
	return t
}

// WrapRadians wraps an angle into [0, 2π).
func WrapRadians(a float64) float64 {
	return wrapRadians(a)
}

func wrapRadians(a float64) float64 {
	return wrapTurns(a/twoPi) * twoPi
}

// Package schema is the job-file vocabulary shared by the parser and the
// language server: block and attribute names, accepted enum values, numeric
// limits and the HCL color functions.
package schema

import (
	"math"
	"sort"

	"github.com/jsvensson/palettegen/internal/bounds"
	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/cvd"
	"github.com/jsvensson/palettegen/internal/distance"
	"github.com/jsvensson/palettegen/internal/optimize"
)

// Block names.
const (
	BlockMeta        = "meta"
	BlockPalette     = "palette"
	BlockOptimize    = "optimize"
	BlockCVD         = "cvd"
	BlockConstraints = "constraints"
	BlockGenerated   = "generated"
)

// TopLevelBlocks lists the blocks a job file may contain.
var TopLevelBlocks = []string{BlockMeta, BlockPalette, BlockOptimize, BlockGenerated}

// Kind is the value type of an attribute.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindNumber
	KindBool
	KindNumberList
	KindStringList
)

// Attribute describes one attribute of a block.
type Attribute struct {
	Name   string
	Doc    string
	Kind   Kind
	Values []string // accepted strings for enums and enum lists
	Min    float64
	Max    float64
	Len    int // exact length of list attributes, 0 for any
}

// IsEnum reports whether the attribute only accepts the strings in Values.
func (a Attribute) IsEnum() bool {
	return len(a.Values) > 0
}

// InRange reports whether v is within the attribute's numeric limits.
func (a Attribute) InRange(v float64) bool {
	return v >= a.Min && v <= a.Max
}

func spaceNames() []string {
	spaces := optimize.OptimizationSpaces()
	out := make([]string, len(spaces))
	for i, s := range spaces {
		out[i] = s.String()
	}
	return out
}

var inf = math.Inf(1)

func attr(name, doc string, kind Kind, values []string, lo, hi float64) Attribute {
	return Attribute{Name: name, Doc: doc, Kind: kind, Values: values, Min: lo, Max: hi}
}

var blockAttributes = map[string][]Attribute{
	BlockMeta: {
		attr("name", "Job name, shown in reports.", KindString, nil, -inf, inf),
		attr("description", "Free-form description.", KindString, nil, -inf, inf),
	},
	BlockOptimize: {
		attr("color_space", "Space the optimizer searches in.", KindString, spaceNames(), -inf, inf),
		attr("colors_to_add", "Number of colors to generate.", KindInt, nil, 1, inf),
		attr("restarts", "Independent Nelder-Mead restarts.", KindInt, nil, 1, inf),
		attr("max_iterations", "Iteration budget per restart.", KindInt, nil, optimize.MinIterations, inf),
		attr("distance_metric", "Perceptual distance between two colors.", KindString, distance.MetricNames(), -inf, inf),
		attr("mean", "How pairwise distances aggregate into one score.", KindString, distance.MeanNames(), -inf, inf),
		attr("mean_exponent", "Exponent of the power and lehmer means.", KindNumber, nil, -inf, inf),
		attr("cvd_model", "Color vision deficiency simulation matrices.", KindString, cvd.ModelNames(), -inf, inf),
		attr("gamut", "Target gamut. Wider gamuts extend the chroma range.", KindString, color.GamutNames(), -inf, inf),
		attr("clip_to_gamut", "Clip candidates into the gamut before scoring.", KindBool, nil, -inf, inf),
		attr("seed", "Random seed; omit for a time-derived seed.", KindInt, nil, 0, inf),
		attr("tolerance", "Simplex convergence tolerance.", KindNumber, nil, 0, inf),
		attr("step", "Initial simplex step.", KindNumber, nil, 0, inf),
	},
	BlockCVD: {
		attr("none", "Weight of normal vision.", KindNumber, nil, 0, inf),
		attr("protan", "Weight of simulated protanopia.", KindNumber, nil, 0, inf),
		attr("deutan", "Weight of simulated deuteranopia.", KindNumber, nil, 0, inf),
		attr("tritan", "Weight of simulated tritanopia.", KindNumber, nil, 0, inf),
		attr("severity", "Deficiency severity in [0, 1].", KindNumber, nil, 0, 1),
	},
	BlockConstraints: {
		attr("topology", "One range per channel or a union of ranges around each color.", KindString, []string{"contiguous", "discontiguous"}, -inf, inf),
		attr("aesthetic", "Harmonic copies of the palette added before bounds are computed.", KindString, bounds.AestheticNames(), -inf, inf),
		{Name: "widths", Doc: "Per-channel constraint widths in [0, 1]; 0 leaves a channel free.", Kind: KindNumberList, Min: 0, Max: 1, Len: 3},
		{Name: "modes", Doc: "Per-channel constraint modes.", Kind: KindStringList, Values: []string{"hard", "soft"}, Min: -inf, Max: inf, Len: 3},
	},
}

var nestedBlocks = map[string][]string{
	BlockOptimize: {BlockCVD, BlockConstraints},
}

// Attributes returns the known attributes of block, sorted by name. Palette
// and generated blocks take arbitrary color names and return nil.
func Attributes(block string) []Attribute {
	attrs := append([]Attribute(nil), blockAttributes[block]...)
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return attrs
}

// Lookup finds attribute name in block.
func Lookup(block, name string) (Attribute, bool) {
	for _, a := range blockAttributes[block] {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// NestedBlocks returns the blocks allowed inside block.
func NestedBlocks(block string) []string {
	return nestedBlocks[block]
}

// IsColorBlock reports whether block holds named colors.
func IsColorBlock(block string) bool {
	return block == BlockPalette || block == BlockGenerated
}

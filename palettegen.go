// Package palettegen generates colors that stay perceptually distinct from
// an existing palette, including under simulated color vision deficiencies.
//
// A job file names the existing palette and the optimizer settings:
//
//	job, err := palettegen.Load("job.hcl")
//	report, err := job.Run(ctx, palettegen.Options{})
//
// The conversion, distance and simulation helpers are exported for callers
// that only need the color math.
package palettegen

import (
	"context"
	"fmt"

	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/cvd"
	"github.com/jsvensson/palettegen/internal/distance"
	"github.com/jsvensson/palettegen/internal/engine"
	"github.com/jsvensson/palettegen/internal/optimize"
	"github.com/jsvensson/palettegen/internal/parser"
	"github.com/jsvensson/palettegen/internal/schema"
)

type (
	Color  = color.Color
	Values = color.Values
	Space  = color.Space

	Metric   = distance.Metric
	MeanKind = distance.MeanKind

	Deficiency = cvd.Type
	CVDModel   = cvd.Model

	Config      = optimize.Config
	ConfigError = optimize.ConfigError
	Options     = optimize.Options
	Progress    = optimize.Progress
	Trace       = optimize.Trace
	Result      = optimize.BestResult
	RunResult   = optimize.RunResult

	Report = engine.Report
	Entry  = schema.Entry
)

// Job is a parsed job file.
type Job struct {
	Path      string
	Meta      engine.Meta
	Palette   []Entry
	Generated []Entry // colors written back by an earlier run
	Config    Config
	// Warnings are non-fatal problems found while loading, such as an
	// unknown metric falling back to de2000.
	Warnings []string
}

// Load parses an HCL job file.
func Load(path string) (*Job, error) {
	raw, err := parser.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("loading job: %w", err)
	}
	return newJob(path, raw), nil
}

// LoadSource parses in-memory job content. filename is used in error
// messages only.
func LoadSource(src []byte, filename string) (*Job, error) {
	raw, err := parser.ParseSource(src, filename)
	if err != nil {
		return nil, fmt.Errorf("loading job: %w", err)
	}
	return newJob(filename, raw), nil
}

func newJob(path string, raw *parser.ParseResult) *Job {
	return &Job{
		Path: path,
		Meta: engine.Meta{
			Name:        raw.Meta.Name,
			Description: raw.Meta.Description,
		},
		Palette:   raw.Palette,
		Generated: raw.Generated,
		Config:    raw.Config,
		Warnings:  raw.Warnings,
	}
}

// Existing returns the palette colors in source order.
func (j *Job) Existing() []Color {
	out := make([]Color, len(j.Palette))
	for i, e := range j.Palette {
		out[i] = e.Color
	}
	return out
}

// Run optimizes the job and builds a report of the best palette. When ctx
// is cancelled after at least one restart finished, the report of the best
// restart so far is returned together with the context error.
func (j *Job) Run(ctx context.Context, opts Options) (*Report, error) {
	res, err := optimize.Optimize(ctx, j.Existing(), j.Config, opts)
	if res == nil {
		return nil, err
	}
	return engine.NewReport(j.Meta, j.Palette, j.Config, res), err
}

// Optimize searches for cfg.NColors colors that maximize the aggregated
// pairwise distance to existing and to each other.
func Optimize(ctx context.Context, existing []Color, cfg Config, opts Options) (*Result, error) {
	return optimize.Optimize(ctx, existing, cfg, opts)
}

// DefaultConfig returns the settings used for everything a job leaves out.
func DefaultConfig() Config {
	return optimize.Defaults()
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (Color, error) {
	return color.ParseHex(s)
}

// FromValues returns the nearest sRGB color to v in space s.
func FromValues(v Values, s Space) (Color, error) {
	return color.FromValues(v, s)
}

// ParseSpace resolves a space name such as "oklch".
func ParseSpace(name string) (Space, error) {
	return color.ParseSpace(name)
}

// ConvertValues converts a channel triple between spaces.
func ConvertValues(v Values, from, to Space) (Values, error) {
	return color.ConvertValues(v, from, to)
}

// ParseMetric resolves a metric name. Unknown names return de2000 and false.
func ParseMetric(name string) (Metric, bool) {
	return distance.ParseMetric(name)
}

// Distance is the perceptual distance between two colors under m.
func Distance(a, b Color, m Metric) float64 {
	return distance.Colors(a, b, m)
}

// ParseMean resolves an aggregation name such as "power".
func ParseMean(name string) (MeanKind, error) {
	return distance.ParseMean(name)
}

// Aggregate combines pairwise distances into one score. p is the exponent
// of the power and lehmer means.
func Aggregate(values []float64, k MeanKind, p float64) float64 {
	return distance.Aggregate(values, k, p)
}

// ParseDeficiency resolves "none", "protan", "deutan" or "tritan".
func ParseDeficiency(name string) (Deficiency, error) {
	return cvd.ParseType(name)
}

// ParseCVDModel resolves "legacy" or "machado2009".
func ParseCVDModel(name string) (CVDModel, error) {
	return cvd.ParseModel(name)
}

// Simulate returns c as seen with deficiency t at severity in [0, 1].
func Simulate(c Color, t Deficiency, severity float64, m CVDModel) Color {
	return cvd.Simulate(c, t, severity, m)
}

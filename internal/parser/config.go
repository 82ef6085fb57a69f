package parser

import (
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/palettegen/internal/optimize"
	"github.com/jsvensson/palettegen/internal/schema"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("palettegen.parser")

// ParseResult holds the parsed job data.
type ParseResult struct {
	Meta      Meta
	Palette   []schema.Entry
	Optimize  *OptimizeBlock // nil when the job has no optimize block
	Config    optimize.Config
	Generated []schema.Entry
	// Warnings are non-fatal problems such as an unknown metric falling back
	// to de2000.
	Warnings []string
}

// Meta holds job metadata.
type Meta struct {
	Name        string `hcl:"name,optional"`
	Description string `hcl:"description,optional"`
}

// PaletteBlock wraps a single palette block for gohcl decoding.
type PaletteBlock struct {
	Entries hcl.Body `hcl:",remain"`
}

// RawConfig captures the palette block first. Palette entries may call the
// color functions and reference earlier entries.
type RawConfig struct {
	Palette *PaletteBlock `hcl:"palette,block"`
	Remain  hcl.Body      `hcl:",remain"`
}

// ColorBlock wraps a block with arbitrary color attributes for gohcl decoding.
type ColorBlock struct {
	Entries hcl.Body `hcl:",remain"`
}

// OptimizeBlock is the optimize block as written. Nil fields were omitted.
type OptimizeBlock struct {
	ColorSpace     *string  `hcl:"color_space,optional"`
	ColorsToAdd    *int     `hcl:"colors_to_add,optional"`
	Restarts       *int     `hcl:"restarts,optional"`
	MaxIterations  *int     `hcl:"max_iterations,optional"`
	DistanceMetric *string  `hcl:"distance_metric,optional"`
	Mean           *string  `hcl:"mean,optional"`
	MeanExponent   *float64 `hcl:"mean_exponent,optional"`
	CVDModel       *string  `hcl:"cvd_model,optional"`
	Gamut          *string  `hcl:"gamut,optional"`
	ClipToGamut    *bool    `hcl:"clip_to_gamut,optional"`
	Seed           *int64   `hcl:"seed,optional"`
	Tolerance      *float64 `hcl:"tolerance,optional"`
	Step           *float64 `hcl:"step,optional"`

	CVD         *CVDBlock         `hcl:"cvd,block"`
	Constraints *ConstraintsBlock `hcl:"constraints,block"`
}

// CVDBlock holds the per-deficiency weights and the shared severity.
type CVDBlock struct {
	None     *float64 `hcl:"none,optional"`
	Protan   *float64 `hcl:"protan,optional"`
	Deutan   *float64 `hcl:"deutan,optional"`
	Tritan   *float64 `hcl:"tritan,optional"`
	Severity *float64 `hcl:"severity,optional"`
}

// ConstraintsBlock holds the bounds settings.
type ConstraintsBlock struct {
	Topology  *string   `hcl:"topology,optional"`
	Aesthetic *string   `hcl:"aesthetic,optional"`
	Widths    []float64 `hcl:"widths,optional"`
	Modes     []string  `hcl:"modes,optional"`
}

// ResolvedConfig decodes the blocks that may reference palette.
type ResolvedConfig struct {
	Meta      *Meta          `hcl:"meta,block"`
	Optimize  *OptimizeBlock `hcl:"optimize,block"`
	Generated *ColorBlock    `hcl:"generated,block"`
}

// Loader handles two-pass HCL decoding with palette resolution.
type Loader struct {
	body    hcl.Body
	ctx     *hcl.EvalContext
	palette []schema.Entry
}

// NewLoader reads and parses a job file and builds the evaluation context
// from its palette.
func NewLoader(path string) (*Loader, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}
	return NewLoaderFromSource(src, path)
}

// NewLoaderFromSource is NewLoader for in-memory content.
func NewLoaderFromSource(src []byte, filename string) (*Loader, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	// First pass: extract palette
	var raw RawConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("decoding palette: %s", diags.Error())
	}
	if raw.Palette == nil {
		return nil, fmt.Errorf("no palette block found")
	}

	palette, err := parseColorBody(raw.Palette.Entries, nil, schema.BlockPalette)
	if err != nil {
		return nil, fmt.Errorf("parsing palette: %w", err)
	}

	return &Loader{
		body:    raw.Remain,
		ctx:     schema.BuildEvalContext(palette),
		palette: palette,
	}, nil
}

// Decode decodes the blocks after the palette using the palette context.
func (l *Loader) Decode(target any) error {
	if diags := gohcl.DecodeBody(l.body, l.ctx, target); diags.HasErrors() {
		return fmt.Errorf("decoding: %s", diags.Error())
	}
	return nil
}

// Palette returns the palette entries in source order.
func (l *Loader) Palette() []schema.Entry {
	return l.palette
}

// Context returns the EvalContext for manual parsing.
func (l *Loader) Context() *hcl.EvalContext {
	return l.ctx
}

// sortedAttributes returns the attributes of body in source order.
func sortedAttributes(body hcl.Body) ([]*hcl.Attribute, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("getting attributes: %s", diags.Error())
	}
	out := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Range.Start.Byte < out[j].Range.Start.Byte
	})
	return out, nil
}

// parseColorBody evaluates every attribute of body to a color. When ctx is
// nil, each entry sees the entries before it as palette.name.
func parseColorBody(body hcl.Body, ctx *hcl.EvalContext, block string) ([]schema.Entry, error) {
	if body == nil {
		return nil, nil
	}
	attrs, err := sortedAttributes(body)
	if err != nil {
		return nil, err
	}

	entries := make([]schema.Entry, 0, len(attrs))
	for _, attr := range attrs {
		evalCtx := ctx
		if evalCtx == nil {
			evalCtx = schema.BuildEvalContext(entries)
		}
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating %s.%s: %s", block, attr.Name, diags.Error())
		}
		c, err := schema.ResolveColor(val)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", block, attr.Name, err)
		}
		entries = append(entries, schema.Entry{Name: attr.Name, Color: c})
	}
	return entries, nil
}

// Parse parses an HCL job file.
func Parse(path string) (*ParseResult, error) {
	loader, err := NewLoader(path)
	if err != nil {
		return nil, err
	}
	return parse(loader)
}

// ParseSource parses in-memory job content.
func ParseSource(src []byte, filename string) (*ParseResult, error) {
	loader, err := NewLoaderFromSource(src, filename)
	if err != nil {
		return nil, err
	}
	return parse(loader)
}

func parse(loader *Loader) (*ParseResult, error) {
	// Second pass: decode blocks that reference palette
	var resolved ResolvedConfig
	if err := loader.Decode(&resolved); err != nil {
		return nil, err
	}

	var generated []schema.Entry
	if resolved.Generated != nil {
		var err error
		generated, err = parseColorBody(resolved.Generated.Entries, loader.Context(), schema.BlockGenerated)
		if err != nil {
			return nil, fmt.Errorf("parsing generated: %w", err)
		}
	}

	cfg, warnings, err := resolved.Optimize.Config()
	if err != nil {
		return nil, fmt.Errorf("parsing optimize: %w", err)
	}

	meta := Meta{}
	if resolved.Meta != nil {
		meta = *resolved.Meta
	}

	return &ParseResult{
		Meta:      meta,
		Palette:   loader.Palette(),
		Optimize:  resolved.Optimize,
		Config:    cfg,
		Generated: generated,
		Warnings:  warnings,
	}, nil
}

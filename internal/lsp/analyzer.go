package lsp

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/distance"
	"github.com/jsvensson/palettegen/internal/optimize"
	"github.com/jsvensson/palettegen/internal/parser"
	"github.com/jsvensson/palettegen/internal/schema"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/zclconf/go-cty/cty"
)

const diagSource = "palettegen"

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
	DiagInfo    = protocol.DiagnosticSeverityInformation
)

// AnalysisResult holds all information produced by analyzing a job file.
type AnalysisResult struct {
	Diagnostics []protocol.Diagnostic
	Palette     []schema.Entry
	Generated   []schema.Entry
	Symbols     map[string]protocol.Range // "palette.base" -> definition range
	Colors      []ColorLocation
	Attributes  []AttributeLocation
	// Config is the resolved optimizer configuration, nil while the file
	// has errors.
	Config *optimize.Config
}

// ColorLocation records a resolved color at a specific source position.
type ColorLocation struct {
	Range protocol.Range
	Color color.Color
	IsRef bool   // true if this is a palette reference (not a literal or call)
	Name  string // symbol the expression defines, e.g. "palette.base"
}

// AttributeLocation records the name of a schema attribute in the source.
type AttributeLocation struct {
	Range     protocol.Range
	Block     string
	Attribute schema.Attribute
}

// hclPosToLSP converts an HCL position to an LSP position.
// HCL positions are 1-based; LSP positions are 0-based.
func hclPosToLSP(pos hcl.Pos) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line - 1),
		Character: uint32(pos.Column - 1),
	}
}

// hclRangeToLSP converts an HCL range to an LSP range.
func hclRangeToLSP(r hcl.Range) protocol.Range {
	return protocol.Range{
		Start: hclPosToLSP(r.Start),
		End:   hclPosToLSP(r.End),
	}
}

func fileStart(filename string) hcl.Range {
	return hcl.Range{
		Filename: filename,
		Start:    hcl.Pos{Line: 1, Column: 1},
		End:      hcl.Pos{Line: 1, Column: 1},
	}
}

// Analyze parses job file content from memory and produces diagnostics, a
// symbol table, color locations and attribute locations. It collects all
// errors rather than stopping at the first.
func Analyze(filename, content string) *AnalysisResult {
	result := &AnalysisResult{
		Symbols: make(map[string]protocol.Range),
	}

	file, diags := hclsyntax.ParseConfig([]byte(content), filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		for _, d := range diags {
			result.Diagnostics = append(result.Diagnostics, hclDiagToLSP(d))
		}
		// Cannot proceed with semantic analysis if syntax is broken
		return result
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		result.addError(hcl.Range{}, "internal error: parsed body is not *hclsyntax.Body")
		return result
	}

	for _, attr := range body.Attributes {
		result.addError(attr.NameRange, fmt.Sprintf("unexpected attribute %q at top level; expected a block", attr.Name))
	}

	blocks := make(map[string]*hclsyntax.Block)
	for _, block := range body.Blocks {
		if !isTopLevelBlock(block.Type) {
			result.addError(block.TypeRange, fmt.Sprintf("unknown block %q (valid: %s)", block.Type, strings.Join(schema.TopLevelBlocks, ", ")))
			continue
		}
		if _, dup := blocks[block.Type]; dup {
			result.addError(block.TypeRange, fmt.Sprintf("duplicate %s block", block.Type))
			continue
		}
		blocks[block.Type] = block
	}

	palette, ok := blocks[schema.BlockPalette]
	if !ok {
		result.addError(fileStart(filename), "missing required palette block")
		return result
	}

	result.analyzePalette(palette.Body)
	ctx := schema.BuildEvalContext(result.Palette)

	if b, ok := blocks[schema.BlockMeta]; ok {
		result.analyzeSchemaBlock(b.Body, ctx, schema.BlockMeta)
	}
	if b, ok := blocks[schema.BlockOptimize]; ok {
		result.analyzeSchemaBlock(b.Body, ctx, schema.BlockOptimize)
	}
	if b, ok := blocks[schema.BlockGenerated]; ok {
		result.Generated = result.analyzeColorBlock(b.Body, ctx, schema.BlockGenerated)
	}

	if !result.hasErrors() {
		result.resolveConfig(filename, content, blocks[schema.BlockOptimize])
	}

	return result
}

func isTopLevelBlock(name string) bool {
	for _, b := range schema.TopLevelBlocks {
		if b == name {
			return true
		}
	}
	return false
}

// hclDiagToLSP converts an HCL diagnostic to an LSP diagnostic.
func hclDiagToLSP(d *hcl.Diagnostic) protocol.Diagnostic {
	sev := DiagError
	if d.Severity == hcl.DiagWarning {
		sev = DiagWarning
	}

	diag := protocol.Diagnostic{
		Severity: &sev,
		Message:  d.Summary,
		Source:   strPtr(diagSource),
	}

	if d.Detail != "" {
		diag.Message = d.Summary + ": " + d.Detail
	}

	if d.Subject != nil {
		diag.Range = hclRangeToLSP(*d.Subject)
	}

	return diag
}

// addError adds an error-level diagnostic at the given range.
func (r *AnalysisResult) addError(rng hcl.Range, msg string) {
	r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
		Range:    hclRangeToLSP(rng),
		Severity: &DiagError,
		Source:   strPtr(diagSource),
		Message:  msg,
	})
}

// addWarning adds a warning-level diagnostic at the given range.
func (r *AnalysisResult) addWarning(rng hcl.Range, msg string) {
	r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
		Range:    hclRangeToLSP(rng),
		Severity: &DiagWarning,
		Source:   strPtr(diagSource),
		Message:  msg,
	})
}

func (r *AnalysisResult) hasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity != nil && *d.Severity == DiagError {
			return true
		}
	}
	return false
}

func strPtr(s string) *string {
	return &s
}

// sortedAttributes returns the attributes of body in source order.
func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, a := range body.Attributes {
		attrs = append(attrs, a)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}

// analyzePalette evaluates palette entries in source order so later entries
// can reference earlier ones.
func (r *AnalysisResult) analyzePalette(body *hclsyntax.Body) {
	for _, block := range body.Blocks {
		r.addError(block.TypeRange, fmt.Sprintf("palette entries must be attributes, found block %q", block.Type))
	}

	for _, attr := range sortedAttributes(body) {
		ctx := schema.BuildEvalContext(r.Palette)
		if c, ok := r.evalColor(attr, ctx, schema.BlockPalette); ok {
			r.Palette = append(r.Palette, schema.Entry{Name: attr.Name, Color: c})
		}
	}
}

// analyzeColorBlock evaluates a flat block of named colors against a fixed
// context and returns the entries that resolved.
func (r *AnalysisResult) analyzeColorBlock(body *hclsyntax.Body, ctx *hcl.EvalContext, block string) []schema.Entry {
	for _, b := range body.Blocks {
		r.addError(b.TypeRange, fmt.Sprintf("%s entries must be attributes, found block %q", block, b.Type))
	}

	var entries []schema.Entry
	for _, attr := range sortedAttributes(body) {
		if c, ok := r.evalColor(attr, ctx, block); ok {
			entries = append(entries, schema.Entry{Name: attr.Name, Color: c})
		}
	}
	return entries
}

func (r *AnalysisResult) evalColor(attr *hclsyntax.Attribute, ctx *hcl.EvalContext, block string) (color.Color, bool) {
	symbol := block + "." + attr.Name
	r.Symbols[symbol] = hclRangeToLSP(attr.SrcRange)

	val, diags := attr.Expr.Value(ctx)
	if diags.HasErrors() {
		r.addError(attr.SrcRange, fmt.Sprintf("evaluating %s: %s", symbol, diags.Error()))
		return color.Color{}, false
	}

	c, err := schema.ResolveColor(val)
	if err != nil {
		r.addError(attr.SrcRange, fmt.Sprintf("%s: %s", symbol, err.Error()))
		return color.Color{}, false
	}

	r.Colors = append(r.Colors, ColorLocation{
		Range: hclRangeToLSP(attr.Expr.Range()),
		Color: c,
		IsRef: isReferenceExpr(attr.Expr),
		Name:  symbol,
	})
	return c, true
}

// analyzeSchemaBlock checks the attributes and nested blocks of a block with
// a fixed vocabulary.
func (r *AnalysisResult) analyzeSchemaBlock(body *hclsyntax.Body, ctx *hcl.EvalContext, block string) {
	for _, attr := range sortedAttributes(body) {
		a, ok := schema.Lookup(block, attr.Name)
		if !ok {
			r.addError(attr.NameRange, fmt.Sprintf("unknown attribute %q in %s block", attr.Name, block))
			continue
		}
		r.Attributes = append(r.Attributes, AttributeLocation{
			Range:     hclRangeToLSP(attr.NameRange),
			Block:     block,
			Attribute: a,
		})

		val, diags := attr.Expr.Value(ctx)
		if diags.HasErrors() {
			r.addError(attr.SrcRange, fmt.Sprintf("evaluating %s.%s: %s", block, attr.Name, diags.Error()))
			continue
		}
		r.checkValue(attr.Expr.Range(), block, a, val)
	}

	nested := schema.NestedBlocks(block)
	seen := make(map[string]bool)
	for _, b := range body.Blocks {
		if !contains(nested, b.Type) {
			r.addError(b.TypeRange, fmt.Sprintf("unknown block %q in %s block", b.Type, block))
			continue
		}
		if seen[b.Type] {
			r.addError(b.TypeRange, fmt.Sprintf("duplicate %s block", b.Type))
			continue
		}
		seen[b.Type] = true
		r.analyzeSchemaBlock(b.Body, ctx, b.Type)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// checkValue validates the type, enum membership and numeric limits of val.
func (r *AnalysisResult) checkValue(rng hcl.Range, block string, a schema.Attribute, val cty.Value) {
	field := block + "." + a.Name
	if val.IsNull() || !val.IsWhollyKnown() {
		r.addError(rng, fmt.Sprintf("%s: value required", field))
		return
	}

	switch a.Kind {
	case schema.KindString:
		if val.Type() != cty.String {
			r.addError(rng, fmt.Sprintf("%s: expected a string, got %s", field, val.Type().FriendlyName()))
			return
		}
		r.checkEnum(rng, field, a, val.AsString())

	case schema.KindInt, schema.KindNumber:
		if val.Type() != cty.Number {
			r.addError(rng, fmt.Sprintf("%s: expected a number, got %s", field, val.Type().FriendlyName()))
			return
		}
		bf := val.AsBigFloat()
		if a.Kind == schema.KindInt && !bf.IsInt() {
			r.addError(rng, fmt.Sprintf("%s: expected a whole number", field))
			return
		}
		f, _ := bf.Float64()
		r.checkRange(rng, field, a, f)

	case schema.KindBool:
		if val.Type() != cty.Bool {
			r.addError(rng, fmt.Sprintf("%s: expected true or false, got %s", field, val.Type().FriendlyName()))
		}

	case schema.KindNumberList, schema.KindStringList:
		ty := val.Type()
		if !ty.IsTupleType() && !ty.IsListType() {
			r.addError(rng, fmt.Sprintf("%s: expected a list, got %s", field, ty.FriendlyName()))
			return
		}
		if a.Len > 0 && val.LengthInt() != a.Len {
			r.addError(rng, fmt.Sprintf("%s: need %d values, got %d", field, a.Len, val.LengthInt()))
			return
		}
		for it := val.ElementIterator(); it.Next(); {
			_, el := it.Element()
			if a.Kind == schema.KindNumberList {
				if el.IsNull() || el.Type() != cty.Number {
					r.addError(rng, fmt.Sprintf("%s: expected numbers", field))
					return
				}
				f, _ := el.AsBigFloat().Float64()
				r.checkRange(rng, field, a, f)
				continue
			}
			if el.IsNull() || el.Type() != cty.String {
				r.addError(rng, fmt.Sprintf("%s: expected strings", field))
				return
			}
			r.checkEnum(rng, field, a, el.AsString())
		}
	}
}

func (r *AnalysisResult) checkEnum(rng hcl.Range, field string, a schema.Attribute, s string) {
	if !a.IsEnum() || contains(a.Values, s) {
		return
	}
	if field == schema.BlockOptimize+".distance_metric" {
		r.addWarning(rng, fmt.Sprintf("unknown distance_metric %q, falling back to %s", s, distance.DE2000))
		return
	}
	r.addError(rng, fmt.Sprintf("%s: unknown value %q (valid: %s)", field, s, strings.Join(a.Values, ", ")))
}

func (r *AnalysisResult) checkRange(rng hcl.Range, field string, a schema.Attribute, v float64) {
	if a.InRange(v) {
		return
	}
	switch {
	case math.IsInf(a.Max, 1):
		r.addError(rng, fmt.Sprintf("%s: must be at least %g, got %g", field, a.Min, v))
	case math.IsInf(a.Min, -1):
		r.addError(rng, fmt.Sprintf("%s: must be at most %g, got %g", field, a.Max, v))
	default:
		r.addError(rng, fmt.Sprintf("%s: must be in [%g, %g], got %g", field, a.Min, a.Max, v))
	}
}

// resolveConfig runs the job parser to catch cross-field problems the
// per-attribute checks cannot see, such as a cvd block whose weights are all
// zero.
func (r *AnalysisResult) resolveConfig(filename, content string, optimizeBlock *hclsyntax.Block) {
	res, err := parser.ParseSource([]byte(content), filename)
	if err != nil {
		rng := fileStart(filename)
		if optimizeBlock != nil {
			rng = optimizeBlock.TypeRange
		}
		r.addError(rng, err.Error())
		return
	}
	r.Config = &res.Config
}

// isReferenceExpr returns true if the expression is a scope traversal
// (e.g. palette.base) rather than a literal value.
func isReferenceExpr(expr hclsyntax.Expression) bool {
	switch expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		return true
	case *hclsyntax.RelativeTraversalExpr:
		return true
	default:
		return false
	}
}

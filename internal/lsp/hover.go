package lsp

import (
	"fmt"
	"math"
	"strings"

	"github.com/jsvensson/palettegen/internal/appearance"
	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/cvd"
	"github.com/jsvensson/palettegen/internal/distance"
	"github.com/jsvensson/palettegen/internal/schema"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// posInRange returns true if pos is within the range [r.Start, r.End).
// The end position is exclusive.
func posInRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// extractText extracts the source text at a given LSP range from document content.
func extractText(content string, r protocol.Range) string {
	lines := strings.Split(content, "\n")

	startLine := int(r.Start.Line)
	endLine := int(r.End.Line)

	if startLine >= len(lines) {
		return ""
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	if startLine == endLine {
		line := lines[startLine]
		startChar := int(r.Start.Character)
		endChar := int(r.End.Character)
		if startChar > len(line) {
			startChar = len(line)
		}
		if endChar > len(line) {
			endChar = len(line)
		}
		return line[startChar:endChar]
	}

	// Multi-line range
	var parts []string
	for i := startLine; i <= endLine; i++ {
		line := lines[i]
		if i == startLine {
			startChar := int(r.Start.Character)
			if startChar > len(line) {
				startChar = len(line)
			}
			parts = append(parts, line[startChar:])
		} else if i == endLine {
			endChar := int(r.End.Character)
			if endChar > len(line) {
				endChar = len(line)
			}
			parts = append(parts, line[:endChar])
		} else {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}

// hover produces a Hover response for the given cursor position. Colors get
// their coordinates in the supported spaces, their appearance under each
// color vision deficiency and their nearest neighbour in the job. Schema
// attribute names get their documentation. Returns nil when there is
// nothing under the cursor.
func hover(result *AnalysisResult, content string, pos protocol.Position) *protocol.Hover {
	if result == nil {
		return nil
	}

	for _, cl := range result.Colors {
		if !posInRange(pos, cl.Range) {
			continue
		}
		return markdownHover(colorHover(result, content, cl), cl.Range)
	}

	for _, al := range result.Attributes {
		if !posInRange(pos, al.Range) {
			continue
		}
		return markdownHover(attributeHover(al), al.Range)
	}

	return nil
}

func markdownHover(md string, rng protocol.Range) *protocol.Hover {
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: md,
		},
		Range: &rng,
	}
}

func colorHover(result *AnalysisResult, content string, cl ColorLocation) string {
	c := cl.Color
	var b strings.Builder

	title := cl.Name
	if cl.IsRef {
		title = extractText(content, cl.Range)
	}
	if title != "" {
		fmt.Fprintf(&b, "**%s**\n\n", title)
	}
	fmt.Fprintf(&b, "`%s` \u00b7 `%s`\n\n", c.Hex(), c.RGB())

	hsl := color.RGBToHSL(c.Values())
	xyz := color.LinearToXYZ(color.GamutSRGB, c.Linear())
	lab := color.XYZToLab(xyz)
	l, ch, h := color.RGBToOKLCH(c)
	ucs := appearance.DefaultView(appearance.CAM16).UCS(xyz)

	b.WriteString("| space | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| HSL | %.0f\u00b0, %.0f%%, %.0f%% |\n", hsl[0], hsl[1], hsl[2])
	fmt.Fprintf(&b, "| Lab | %.2f, %.2f, %.2f |\n", lab[0], lab[1], lab[2])
	fmt.Fprintf(&b, "| OKLCh | %.3f, %.3f, %.1f\u00b0 |\n", l, ch, h)
	fmt.Fprintf(&b, "| CAM16-UCS | %.2f, %.2f, %.2f |\n", ucs[0], ucs[1], ucs[2])

	severity, model := 1.0, cvd.Machado2009
	if result.Config != nil {
		severity, model = result.Config.CVDSeverity, result.Config.CVDModel
	}
	b.WriteString("\n")
	for i, t := range []cvd.Type{cvd.Protan, cvd.Deutan, cvd.Tritan} {
		if i > 0 {
			b.WriteString(" \u00b7 ")
		}
		fmt.Fprintf(&b, "%s `%s`", t, cvd.Simulate(c, t, severity, model).Hex())
	}
	b.WriteString("\n")

	if name, other, d, ok := nearest(result, c, title); ok {
		fmt.Fprintf(&b, "\nNearest: **%s** `%s` \u0394E2000 %.2f\n", name, other.Hex(), d)
	}

	return b.String()
}

// nearest finds the job color closest to c by CIEDE2000, skipping the entry
// named exclude.
func nearest(result *AnalysisResult, c color.Color, exclude string) (string, color.Color, float64, bool) {
	best := math.Inf(1)
	var bestName string
	var bestColor color.Color

	consider := func(block string, entries []schema.Entry) {
		for _, e := range entries {
			name := block + "." + e.Name
			if name == exclude {
				continue
			}
			if d := distance.Colors(c, e.Color, distance.DE2000); d < best {
				best, bestName, bestColor = d, name, e.Color
			}
		}
	}
	consider(schema.BlockPalette, result.Palette)
	consider(schema.BlockGenerated, result.Generated)

	return bestName, bestColor, best, bestName != ""
}

func attributeHover(al AttributeLocation) string {
	a := al.Attribute
	var b strings.Builder
	fmt.Fprintf(&b, "**%s.%s**\n\n%s", al.Block, a.Name, a.Doc)
	if a.IsEnum() {
		quoted := make([]string, len(a.Values))
		for i, v := range a.Values {
			quoted[i] = "`" + v + "`"
		}
		fmt.Fprintf(&b, "\n\nValues: %s", strings.Join(quoted, ", "))
	}
	return b.String()
}

// textDocumentHover handles textDocument/hover requests.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := string(params.TextDocument.URI)

	result := s.docs.Result(uri)
	if result == nil {
		return nil, nil
	}

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	return hover(result, content, params.Position), nil
}

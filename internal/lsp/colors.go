package lsp

import (
	"fmt"
	"strings"

	"github.com/jsvensson/palettegen/internal/color"
	"github.com/jsvensson/palettegen/internal/schema"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// colorToLSP converts an internal color.Color (uint8 RGB) to a protocol.Color (float32 0.0-1.0).
func colorToLSP(c color.Color) protocol.Color {
	return protocol.Color{
		Red:   float32(c.R) / 255.0,
		Green: float32(c.G) / 255.0,
		Blue:  float32(c.B) / 255.0,
		Alpha: 1.0,
	}
}

// colorFromLSP rounds a protocol.Color to the nearest 8-bit color.
func colorFromLSP(c protocol.Color) color.Color {
	return color.FromSRGB(color.Values{float64(c.Red), float64(c.Green), float64(c.Blue)})
}

// documentColors converts the analysis result's color locations into LSP ColorInformation items.
func documentColors(result *AnalysisResult) []protocol.ColorInformation {
	if result == nil {
		return []protocol.ColorInformation{}
	}

	infos := make([]protocol.ColorInformation, 0, len(result.Colors))
	for _, cl := range result.Colors {
		infos = append(infos, protocol.ColorInformation{
			Range: cl.Range,
			Color: colorToLSP(cl.Color),
		})
	}
	return infos
}

// isFunctionCall reports whether text starts with a call to one of the job
// file color functions.
func isFunctionCall(text string) bool {
	name, _, ok := strings.Cut(text, "(")
	if !ok {
		return false
	}
	_, known := schema.Functions()[strings.TrimSpace(name)]
	return known
}

// colorPresentation offers replacements for a picked color. Hex literals and
// color function calls can be rewritten as a hex string, an oklch() call or
// an hsl() call. References to other colors are never replaced.
func colorPresentation(content string, params *protocol.ColorPresentationParams) []protocol.ColorPresentation {
	c := colorFromLSP(params.Color)
	text := extractText(content, params.Range)

	if strings.HasPrefix(text, schema.BlockPalette+".") {
		return []protocol.ColorPresentation{}
	}
	if !strings.HasPrefix(text, "\"") && !strings.HasPrefix(text, "#") && !isFunctionCall(text) {
		return []protocol.ColorPresentation{}
	}

	hexText := c.Hex()
	if !strings.HasPrefix(text, "#") {
		hexText = "\"" + hexText + "\""
	}

	l, ch, h := color.RGBToOKLCH(c)
	hsl := color.RGBToHSL(c.Values())
	oklch := fmt.Sprintf("oklch(%.3f, %.3f, %.1f)", l, ch, h)
	hslCall := fmt.Sprintf("hsl(%.0f, %.0f, %.0f)", hsl[0], hsl[1], hsl[2])
	options := []struct{ label, text string }{
		{c.Hex(), hexText},
		{oklch, oklch},
		{hslCall, hslCall},
	}

	out := make([]protocol.ColorPresentation, 0, len(options))
	for _, o := range options {
		out = append(out, protocol.ColorPresentation{
			Label: o.label,
			TextEdit: &protocol.TextEdit{
				Range:   params.Range,
				NewText: o.text,
			},
		})
	}
	return out
}

// textDocumentDocumentColor handles textDocument/documentColor requests.
func (s *Server) textDocumentDocumentColor(_ *glsp.Context, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := string(params.TextDocument.URI)
	result := s.docs.Result(uri)
	return documentColors(result), nil
}

// textDocumentColorPresentation handles textDocument/colorPresentation requests.
func (s *Server) textDocumentColorPresentation(_ *glsp.Context, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	uri := string(params.TextDocument.URI)
	content, ok := s.docs.Get(uri)
	if !ok {
		return []protocol.ColorPresentation{}, nil
	}
	return colorPresentation(content, params), nil
}

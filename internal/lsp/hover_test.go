package lsp

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// positionOf returns the position of the first occurrence of target.
func positionOf(content, target string) protocol.Position {
	for i, line := range strings.Split(content, "\n") {
		if idx := strings.Index(line, target); idx >= 0 {
			return protocol.Position{Line: uint32(i), Character: uint32(idx)}
		}
	}
	return protocol.Position{Line: ^uint32(0)}
}

func hoverText(t *testing.T, h *protocol.Hover) string {
	t.Helper()
	if h == nil {
		t.Fatal("expected hover, got nil")
	}
	mc, ok := h.Contents.(protocol.MarkupContent)
	if !ok {
		t.Fatalf("expected MarkupContent, got %T", h.Contents)
	}
	if mc.Kind != protocol.MarkupKindMarkdown {
		t.Errorf("kind = %q, want markdown", mc.Kind)
	}
	return mc.Value
}

func TestHover_ColorLiteral(t *testing.T) {
	result := Analyze("test.hcl", validJob)
	pos := positionOf(validJob, `"#eb6f92"`)
	pos.Character += 3

	text := hoverText(t, hover(result, validJob, pos))

	for _, want := range []string{
		"**palette.love**",
		"`#eb6f92` \u00b7 `rgb(235, 111, 146)`",
		"| HSL | 343\u00b0, 76%, 68% |",
		"| OKLCh |",
		"| CAM16-UCS |",
		"protan `#",
		"deutan `#",
		"tritan `#",
		"Nearest: **",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("hover missing %q:\n%s", want, text)
		}
	}
}

func TestHover_Reference(t *testing.T) {
	content := "palette {\n  base = \"#191724\"\n  bg   = palette.base\n}\n"
	result := Analyze("test.hcl", content)
	pos := positionOf(content, "palette.base")
	pos.Character += 9

	h := hover(result, content, pos)
	text := hoverText(t, h)

	if !strings.HasPrefix(text, "**palette.base**") {
		t.Errorf("hover should be titled with the reference:\n%s", text)
	}
	// The referenced entry itself is skipped, so the nearest color is the
	// alias with the same value.
	if !strings.Contains(text, "Nearest: **palette.bg** `#191724` \u0394E2000 0.00") {
		t.Errorf("unexpected nearest line:\n%s", text)
	}
	if h.Range == nil || h.Range.Start.Line != 2 {
		t.Errorf("range = %+v, want line 2", h.Range)
	}
}

func TestHover_GeneratedColor(t *testing.T) {
	result := Analyze("test.hcl", validJob)
	pos := positionOf(validJob, `"#31748f"`)

	text := hoverText(t, hover(result, validJob, pos))
	if !strings.Contains(text, "**generated.color_1**") {
		t.Errorf("expected generated title:\n%s", text)
	}
}

func TestHover_Attribute(t *testing.T) {
	result := Analyze("test.hcl", validJob)
	pos := positionOf(validJob, "color_space")

	text := hoverText(t, hover(result, validJob, pos))
	if !strings.HasPrefix(text, "**optimize.color_space**\n\nSpace the optimizer searches in.") {
		t.Errorf("unexpected attribute hover:\n%s", text)
	}
	if !strings.Contains(text, "Values: ") || !strings.Contains(text, "`oklch`") {
		t.Errorf("expected enum values:\n%s", text)
	}
}

func TestHover_NestedAttribute(t *testing.T) {
	result := Analyze("test.hcl", validJob)
	pos := positionOf(validJob, "topology")

	text := hoverText(t, hover(result, validJob, pos))
	if !strings.HasPrefix(text, "**constraints.topology**") {
		t.Errorf("unexpected attribute hover:\n%s", text)
	}
}

func TestHover_Nothing(t *testing.T) {
	result := Analyze("test.hcl", validJob)

	if h := hover(result, validJob, positionOf(validJob, "meta {")); h != nil {
		t.Errorf("expected nil hover on block keyword, got %+v", h)
	}
	if h := hover(nil, validJob, protocol.Position{}); h != nil {
		t.Errorf("expected nil hover for nil result, got %+v", h)
	}
}

func TestPosInRange(t *testing.T) {
	r := protocol.Range{
		Start: protocol.Position{Line: 5, Character: 10},
		End:   protocol.Position{Line: 5, Character: 22},
	}

	tests := []struct {
		name string
		pos  protocol.Position
		want bool
	}{
		{"before range", protocol.Position{Line: 5, Character: 9}, false},
		{"at start", protocol.Position{Line: 5, Character: 10}, true},
		{"in middle", protocol.Position{Line: 5, Character: 15}, true},
		{"at end (exclusive)", protocol.Position{Line: 5, Character: 22}, false},
		{"after range", protocol.Position{Line: 5, Character: 23}, false},
		{"line before", protocol.Position{Line: 4, Character: 15}, false},
		{"line after", protocol.Position{Line: 6, Character: 15}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := posInRange(tt.pos, r)
			if got != tt.want {
				t.Errorf("posInRange(%v, %v) = %v, want %v", tt.pos, r, got, tt.want)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	content := "palette {\n  base = \"#191724\"\n}\n"
	tests := []struct {
		name string
		rng  protocol.Range
		want string
	}{
		{
			name: "single line",
			rng:  protocol.Range{Start: protocol.Position{Line: 1, Character: 10}, End: protocol.Position{Line: 1, Character: 17}},
			want: "#191724",
		},
		{
			name: "multi line",
			rng:  protocol.Range{Start: protocol.Position{Line: 0, Character: 8}, End: protocol.Position{Line: 1, Character: 6}},
			want: "{\n  base",
		},
		{
			name: "past end of file",
			rng:  protocol.Range{Start: protocol.Position{Line: 9, Character: 0}, End: protocol.Position{Line: 9, Character: 4}},
			want: "",
		},
		{
			name: "clamped to line",
			rng:  protocol.Range{Start: protocol.Position{Line: 2, Character: 0}, End: protocol.Position{Line: 2, Character: 40}},
			want: "}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractText(content, tt.rng); got != tt.want {
				t.Errorf("extractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

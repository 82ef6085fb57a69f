package lsp

import (
	"reflect"
	"testing"
)

func TestEncodeTokens_Empty(t *testing.T) {
	result := encodeTokens([]SemanticToken{})
	expected := []uint32{}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("encodeTokens([]) = %v, want %v", result, expected)
	}
}

func TestEncodeTokens_SingleToken(t *testing.T) {
	tokens := []SemanticToken{
		{Line: 2, StartChar: 5, Length: 7, Type: 0, Modifiers: 0},
	}
	result := encodeTokens(tokens)
	expected := []uint32{2, 5, 7, 0, 0}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("encodeTokens() = %v, want %v", result, expected)
	}
}

func TestEncodeTokens_MultipleTokensSameLine(t *testing.T) {
	tokens := []SemanticToken{
		{Line: 0, StartChar: 0, Length: 7, Type: 0, Modifiers: 0}, // "palette"
		{Line: 0, StartChar: 8, Length: 4, Type: 1, Modifiers: 1}, // "base"
	}
	result := encodeTokens(tokens)
	// Second token: deltaLine=0, deltaStart=8-0=8
	expected := []uint32{0, 0, 7, 0, 0, 0, 8, 4, 1, 1}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("encodeTokens() = %v, want %v", result, expected)
	}
}

func TestEncodeTokens_MultipleTokensDifferentLines(t *testing.T) {
	tokens := []SemanticToken{
		{Line: 0, StartChar: 0, Length: 7, Type: 0, Modifiers: 0}, // line 0
		{Line: 2, StartChar: 2, Length: 4, Type: 1, Modifiers: 0}, // line 2
	}
	result := encodeTokens(tokens)
	// Second token: deltaLine=2-0=2, deltaStart=2 (new line, not relative)
	expected := []uint32{0, 0, 7, 0, 0, 2, 2, 4, 1, 0}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("encodeTokens() = %v, want %v", result, expected)
	}
}

func TestEncodeTokens_SortsTokens(t *testing.T) {
	// Tokens in wrong order
	tokens := []SemanticToken{
		{Line: 1, StartChar: 0, Length: 4, Type: 1, Modifiers: 0},
		{Line: 0, StartChar: 0, Length: 7, Type: 0, Modifiers: 0},
	}
	result := encodeTokens(tokens)
	// Should be sorted: line 0 first, then line 1
	expected := []uint32{0, 0, 7, 0, 0, 1, 0, 4, 1, 0}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("encodeTokens() = %v, want %v", result, expected)
	}
}

// decodeTokens reverses encodeTokens.
func decodeTokens(data []uint32) []SemanticToken {
	var tokens []SemanticToken
	var line, char uint32
	for i := 0; i+4 < len(data); i += 5 {
		if data[i] > 0 {
			line += data[i]
			char = data[i+1]
		} else {
			char += data[i+1]
		}
		tokens = append(tokens, SemanticToken{
			Line:      line,
			StartChar: char,
			Length:    data[i+2],
			Type:      data[i+3],
			Modifiers: data[i+4],
		})
	}
	return tokens
}

func findToken(tokens []SemanticToken, line, char uint32) (SemanticToken, bool) {
	for _, tok := range tokens {
		if tok.Line == line && tok.StartChar == char {
			return tok, true
		}
	}
	return SemanticToken{}, false
}

func TestSemanticTokensFull_Empty(t *testing.T) {
	if result := semanticTokensFull(""); len(result) != 0 {
		t.Errorf("expected no tokens, got %v", result)
	}
}

func TestSemanticTokensFull_ParseError(t *testing.T) {
	if result := semanticTokensFull("palette {\n  base = \n"); len(result) != 0 {
		t.Errorf("expected no tokens for invalid HCL, got %v", result)
	}
}

func TestSemanticTokensFull(t *testing.T) {
	type want struct {
		line, char, length uint32
		typ                string
		mods               uint32
	}

	tests := []struct {
		name    string
		content string
		count   int
		want    []want
	}{
		{
			name:    "hex literal",
			content: "palette {\n  base = \"#191724\"\n}\n",
			count:   3,
			want: []want{
				{0, 0, 7, "keyword", 0},
				{1, 2, 4, "variable", 1},
				{1, 9, 9, "string", 0},
			},
		},
		{
			name:    "palette reference",
			content: "palette {\n  base = \"#191724\"\n  bg   = palette.base\n}\n",
			count:   6,
			want: []want{
				{2, 2, 2, "variable", 1},
				{2, 9, 7, "namespace", 0},
				{2, 17, 4, "variable", 0},
			},
		},
		{
			name:    "function call",
			content: "palette {\n  foam = oklch(0.8, 0.08, 200)\n}\n",
			count:   6,
			want: []want{
				{1, 9, 5, "function", 0},
				{1, 15, 3, "number", 0},
				{1, 20, 4, "number", 0},
				{1, 26, 3, "number", 0},
			},
		},
		{
			name:    "unknown function",
			content: "palette {\n  foam = mix(\"#000000\", \"#ffffff\")\n}\n",
			count:   4,
			want: []want{
				{1, 13, 9, "string", 0},
				{1, 24, 9, "string", 0},
			},
		},
		{
			name:    "enum and number attributes",
			content: "optimize {\n  color_space = \"oklch\"\n  restarts    = 4\n}\n",
			count:   5,
			want: []want{
				{0, 0, 8, "keyword", 0},
				{1, 2, 11, "property", 0},
				{1, 16, 7, "enumMember", 0},
				{2, 2, 8, "property", 0},
				{2, 16, 1, "number", 0},
			},
		},
		{
			name:    "unknown enum value",
			content: "optimize {\n  color_space = \"rgb\"\n}\n",
			count:   2,
		},
		{
			name:    "enum list in nested block",
			content: "optimize {\n  constraints {\n    modes = [\"hard\", \"soft\", \"soft\"]\n  }\n}\n",
			count:   6,
			want: []want{
				{1, 2, 11, "keyword", 0},
				{2, 4, 5, "property", 0},
				{2, 13, 6, "enumMember", 0},
				{2, 21, 6, "enumMember", 0},
				{2, 29, 6, "enumMember", 0},
			},
		},
		{
			name:    "meta strings are plain",
			content: "meta {\n  name = \"Dusk\"\n}\n",
			count:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := decodeTokens(semanticTokensFull(tt.content))
			if len(tokens) != tt.count {
				t.Errorf("got %d tokens, want %d: %+v", len(tokens), tt.count, tokens)
			}
			for _, w := range tt.want {
				tok, ok := findToken(tokens, w.line, w.char)
				if !ok {
					t.Errorf("no token at %d:%d", w.line, w.char)
					continue
				}
				if tok.Length != w.length || tok.Type != tokenTypeIndices[w.typ] || tok.Modifiers != w.mods {
					t.Errorf("token at %d:%d = %+v, want length %d type %s mods %d", w.line, w.char, tok, w.length, w.typ, w.mods)
				}
			}
		})
	}
}

func TestSemanticTokensFull_Job(t *testing.T) {
	tokens := decodeTokens(semanticTokensFull(validJob))
	if len(tokens) == 0 {
		t.Fatal("expected tokens for a complete job")
	}

	counts := make(map[uint32]int)
	for _, tok := range tokens {
		counts[tok.Type]++
	}
	// meta, palette, optimize, cvd, constraints, generated
	if got := counts[tokenTypeIndices["keyword"]]; got != 6 {
		t.Errorf("keyword tokens = %d, want 6", got)
	}
	// six palette entries and two generated colors
	if got := counts[tokenTypeIndices["variable"]]; got < 8 {
		t.Errorf("variable tokens = %d, want at least 8", got)
	}
	if got := counts[tokenTypeIndices["function"]]; got != 2 {
		t.Errorf("function tokens = %d, want 2", got)
	}
}

func TestSemanticTokensLegend(t *testing.T) {
	legend := semanticTokensLegend()
	if !reflect.DeepEqual(legend.TokenTypes, semanticTokenTypes) {
		t.Errorf("token types = %v", legend.TokenTypes)
	}
	if !reflect.DeepEqual(legend.TokenModifiers, []string{"declaration"}) {
		t.Errorf("token modifiers = %v", legend.TokenModifiers)
	}
}

package lsp

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/palettegen/internal/schema"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/zclconf/go-cty/cty"
)

// Semantic token types we'll use (indices 0-8)
var semanticTokenTypes = []string{
	"keyword",    // 0: block names (meta, palette, optimize, cvd, constraints, generated)
	"property",   // 1: optimizer and meta attribute names
	"variable",   // 2: color names in palette and generated
	"namespace",  // 3: the "palette" namespace identifier
	"string",     // 4: hex color literals
	"function",   // 5: color functions such as oklch() and simulate()
	"number",     // 6: numeric literals
	"comment",    // 7: comments
	"enumMember", // 8: accepted enum values such as "oklch" or "de2000"
}

// Semantic token modifiers (bit flags)
var semanticTokenModifiers = []string{
	"declaration", // bit 0: defining a new symbol
}

// tokenTypeIndices maps type names to their indices for fast lookup
var tokenTypeIndices map[string]uint32

func init() {
	tokenTypeIndices = make(map[string]uint32, len(semanticTokenTypes))
	for i, t := range semanticTokenTypes {
		tokenTypeIndices[t] = uint32(i)
	}
}

// SemanticToken represents a single token with its metadata
type SemanticToken struct {
	Line      uint32 // 0-based line number
	StartChar uint32 // 0-based character offset
	Length    uint32
	Type      uint32 // index into semanticTokenTypes
	Modifiers uint32 // bit flags
}

// encodeTokens converts tokens to LSP format (5 integers per token)
// Uses delta encoding for line numbers and character positions
func encodeTokens(tokens []SemanticToken) []uint32 {
	if len(tokens) == 0 {
		return []uint32{}
	}

	// Sort tokens by position
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})

	data := make([]uint32, 0, len(tokens)*5)

	var prevLine uint32 = 0
	var prevChar uint32 = 0

	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = tok.StartChar - prevChar
		} else {
			deltaStart = tok.StartChar
		}

		data = append(data,
			deltaLine,
			deltaStart,
			tok.Length,
			tok.Type,
			tok.Modifiers,
		)

		prevLine = tok.Line
		prevChar = tok.StartChar
	}

	return data
}

// semanticTokensFull generates semantic tokens for the entire document content
func semanticTokensFull(content string) []uint32 {
	file, diags := hclsyntax.ParseConfig([]byte(content), "", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		// Return empty tokens if parsing fails
		return []uint32{}
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return []uint32{}
	}

	var tokens []SemanticToken
	tokens = extractTokensFromBody(body, "", tokens)

	return encodeTokens(tokens)
}

func rangeToken(r hcl.Range, length int, typ string, mods uint32) SemanticToken {
	return SemanticToken{
		Line:      uint32(r.Start.Line - 1),
		StartChar: uint32(r.Start.Column - 1),
		Length:    uint32(length),
		Type:      tokenTypeIndices[typ],
		Modifiers: mods,
	}
}

// extractTokensFromBody extracts tokens from the body of block; the root
// body has an empty block name.
func extractTokensFromBody(body *hclsyntax.Body, block string, tokens []SemanticToken) []SemanticToken {
	for _, b := range body.Blocks {
		tokens = append(tokens, rangeToken(b.TypeRange, len(b.Type), "keyword", 0))
		tokens = extractTokensFromBody(b.Body, b.Type, tokens)
	}

	for name, attr := range body.Attributes {
		if schema.IsColorBlock(block) {
			// Color names are declarations that palette references resolve to
			tokens = append(tokens, rangeToken(attr.NameRange, len(name), "variable", 1))
			tokens = extractTokensFromExpr(attr.Expr, tokens)
			continue
		}

		tokens = append(tokens, rangeToken(attr.NameRange, len(name), "property", 0))
		if a, ok := schema.Lookup(block, name); ok && a.IsEnum() {
			tokens = extractEnumTokens(attr.Expr, a, tokens)
			continue
		}
		tokens = extractTokensFromExpr(attr.Expr, tokens)
	}

	return tokens
}

// extractEnumTokens marks accepted values of an enum attribute, including
// the elements of enum lists.
func extractEnumTokens(expr hclsyntax.Expression, a schema.Attribute, tokens []SemanticToken) []SemanticToken {
	var exprs []hclsyntax.Expression
	switch e := expr.(type) {
	case *hclsyntax.TupleConsExpr:
		exprs = e.Exprs
	default:
		exprs = []hclsyntax.Expression{expr}
	}

	for _, e := range exprs {
		tmpl, ok := e.(*hclsyntax.TemplateExpr)
		if !ok || !tmpl.IsStringLiteral() {
			continue
		}
		val, diags := tmpl.Value(nil)
		if diags.HasErrors() || val.Type() != cty.String {
			continue
		}
		if contains(a.Values, val.AsString()) {
			r := tmpl.SrcRange
			tokens = append(tokens, rangeToken(r, r.End.Column-r.Start.Column, "enumMember", 0))
		}
	}
	return tokens
}

// extractTokensFromExpr extracts tokens from an HCL expression
func extractTokensFromExpr(expr hclsyntax.Expression, tokens []SemanticToken) []SemanticToken {
	switch e := expr.(type) {
	case *hclsyntax.TemplateExpr:
		tokens = extractTokensFromTemplate(e, tokens)
	case *hclsyntax.LiteralValueExpr:
		tokens = extractTokensFromLiteral(e, tokens)
	case *hclsyntax.ScopeTraversalExpr:
		tokens = extractTokensFromTraversal(e, tokens)
	case *hclsyntax.FunctionCallExpr:
		tokens = extractTokensFromFunctionCall(e, tokens)
	case *hclsyntax.RelativeTraversalExpr:
		tokens = extractTokensFromRelativeTraversal(e, tokens)
	case *hclsyntax.UnaryOpExpr:
		tokens = extractTokensFromExpr(e.Val, tokens)
	case *hclsyntax.TupleConsExpr:
		for _, el := range e.Exprs {
			tokens = extractTokensFromExpr(el, tokens)
		}
	}
	return tokens
}

// extractTokensFromTemplate marks quoted hex color literals.
func extractTokensFromTemplate(expr *hclsyntax.TemplateExpr, tokens []SemanticToken) []SemanticToken {
	if !expr.IsStringLiteral() {
		return tokens
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.Type() != cty.String {
		return tokens
	}
	str := val.AsString()
	if len(str) == 7 && str[0] == '#' {
		r := expr.SrcRange
		tokens = append(tokens, rangeToken(r, r.End.Column-r.Start.Column, "string", 0))
	}
	return tokens
}

// extractTokensFromLiteral handles number literals
func extractTokensFromLiteral(expr *hclsyntax.LiteralValueExpr, tokens []SemanticToken) []SemanticToken {
	if expr.Val.Type() == cty.Number {
		r := expr.SrcRange
		tokens = append(tokens, rangeToken(r, r.End.Column-r.Start.Column, "number", 0))
	}
	return tokens
}

// extractTokensFromTraversal handles palette references like palette.base
func extractTokensFromTraversal(expr *hclsyntax.ScopeTraversalExpr, tokens []SemanticToken) []SemanticToken {
	if len(expr.Traversal) == 0 {
		return tokens
	}

	first, ok := expr.Traversal[0].(hcl.TraverseRoot)
	if !ok || first.Name != schema.BlockPalette {
		return tokens
	}

	tokens = append(tokens, rangeToken(first.SrcRange, len(first.Name), "namespace", 0))
	for _, step := range expr.Traversal[1:] {
		if seg, ok := step.(hcl.TraverseAttr); ok {
			tokens = append(tokens, rangeToken(attrNameRange(seg), len(seg.Name), "variable", 0))
		}
	}

	return tokens
}

// extractTokensFromFunctionCall handles calls to the color functions such as
// oklch() or brighten(). Unknown names are left to the diagnostics.
func extractTokensFromFunctionCall(expr *hclsyntax.FunctionCallExpr, tokens []SemanticToken) []SemanticToken {
	if _, known := schema.Functions()[expr.Name]; known {
		tokens = append(tokens, rangeToken(expr.NameRange, len(expr.Name), "function", 0))
	}

	// Recurse into arguments
	for _, arg := range expr.Args {
		tokens = extractTokensFromExpr(arg, tokens)
	}

	return tokens
}

// extractTokensFromRelativeTraversal handles relative traversals
func extractTokensFromRelativeTraversal(expr *hclsyntax.RelativeTraversalExpr, tokens []SemanticToken) []SemanticToken {
	// For now, just recurse into the source
	return extractTokensFromExpr(expr.Source, tokens)
}

// semanticTokensLegend describes the token types and modifiers to the client.
func semanticTokensLegend() protocol.SemanticTokensLegend {
	return protocol.SemanticTokensLegend{
		TokenTypes:     semanticTokenTypes,
		TokenModifiers: semanticTokenModifiers,
	}
}

// textDocumentSemanticTokensFull handles textDocument/semanticTokens/full requests.
func (s *Server) textDocumentSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	content, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	return &protocol.SemanticTokens{Data: semanticTokensFull(content)}, nil
}
